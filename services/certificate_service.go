package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"
	"time"

	config "github.com/cdlprep/cdl-prep-backend/configs"
	"github.com/cdlprep/cdl-prep-backend/models"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CertificateService turns a passing practice-test result into a PDF
// certificate stored in Cloudinary. Issuance is best-effort: failures are
// logged, never surfaced to the completion flow.
type CertificateService struct {
	db *gorm.DB
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{db: db}
}

// IssueForSession generates and stores a certificate for a completed,
// passing session. At most one certificate exists per session.
func (s *CertificateService) IssueForSession(session models.TestSession) {
	var existing models.Certificate
	if err := s.db.First(&existing, "test_session_id = ?", session.ID).Error; err == nil {
		return
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", session.UserID).Error; err != nil {
		log.Printf("🔥 Failed to load user for certificate on session %s: %v", session.ID, err)
		return
	}

	htmlData, err := generateCertificateHTML(user.FullName, session)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate HTML: %v", err)
		return
	}

	pdfBytes, err := generatePDFFromHTML(htmlData)
	if err != nil {
		log.Printf("🔥 Failed to generate certificate PDF: %v", err)
		return
	}

	uploadURL, err := uploadCertificate(pdfBytes, user.ID.String())
	if err != nil {
		log.Printf("🔥 Failed to upload certificate to Cloudinary: %v", err)
		return
	}

	certificate := models.Certificate{
		UserID:         user.ID,
		TestSessionID:  session.ID,
		Category:       session.Category,
		Jurisdiction:   session.Jurisdiction,
		Score:          session.Score,
		IssuedAt:       time.Now(),
		CertificateURL: uploadURL,
	}
	if err := s.db.Create(&certificate).Error; err != nil {
		log.Printf("🔥 Failed to create certificate record for user %s: %v", user.ID, err)
		return
	}
	log.Printf("✅ Issued %s certificate for user %s (score %.0f%%)", session.Category, user.ID, session.Score)
}

// ListForUser returns the user's certificates, newest first.
func (s *CertificateService) ListForUser(userID uuid.UUID) ([]models.Certificate, error) {
	var certificates []models.Certificate
	err := s.db.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certificates).Error
	if err != nil {
		return nil, err
	}
	return certificates, nil
}

// categoryTitle renders a category slug for display, e.g.
// "general_knowledge" -> "General Knowledge".
func categoryTitle(category string) string {
	words := strings.Split(category, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func generateCertificateHTML(studentName string, session models.TestSession) (string, error) {
	tmpl, err := template.ParseFiles("templates/certificate.html")
	if err != nil {
		return "", err
	}

	data := struct {
		StudentName    string
		ExamTitle      string
		Jurisdiction   string
		Score          string
		CompletionDate string
	}{
		StudentName:    studentName,
		ExamTitle:      fmt.Sprintf("CDL %s Practice Exam", categoryTitle(session.Category)),
		Jurisdiction:   session.Jurisdiction,
		Score:          fmt.Sprintf("%.0f%%", session.Score),
		CompletionDate: time.Now().Format("January 2, 2006"),
	}

	var renderedHTML bytes.Buffer
	if err := tmpl.Execute(&renderedHTML, data); err != nil {
		return "", err
	}
	return renderedHTML.String(), nil
}

func generatePDFFromHTML(htmlContent string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	var pdfBuffer []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, htmlContent).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			pdf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuffer = pdf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdfBuffer, nil
}

func uploadCertificate(fileBytes []byte, userID string) (string, error) {
	cld, err := cloudinary.NewFromURL(config.Config("CLOUDINARY_URL"))
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uploadParams := uploader.UploadParams{
		PublicID:     fmt.Sprintf("certificates/%s_%s", userID, uuid.New().String()),
		Folder:       "cdl_prep_certificates",
		ResourceType: "raw",
	}

	uploadResult, err := cld.Upload.Upload(ctx, bytes.NewReader(fileBytes), uploadParams)
	if err != nil {
		return "", err
	}

	return uploadResult.SecureURL, nil
}
