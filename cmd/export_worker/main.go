package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/storage"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/config"
	"github.com/resumeforge/resumeforge/internal/domain/entity"
	pginfra "github.com/resumeforge/resumeforge/internal/infrastructure/postgres"
	"github.com/resumeforge/resumeforge/pkg/export"
	"github.com/resumeforge/resumeforge/pkg/helpers"
	"github.com/resumeforge/resumeforge/pkg/mailer"
	"github.com/resumeforge/resumeforge/pkg/preview"
)

// The export worker drains the export queue: it loads the document, renders
// the requested artifact, uploads it to GCS, records the outcome in Redis,
// and optionally emails the owner a download link.

const jobTimeout = 60 * time.Second

func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-export-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQExportQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}
	if cfg.GCSBucket == "" {
		log.Fatal("GCS_BUCKET not configured")
	}

	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		log.Fatalf("gcs: %v", err)
	}
	defer func() { _ = gcsClient.Close() }()

	var mg *mailer.Mailgun
	if cfg.MailSendEnabled && cfg.MailgunDomain != "" && cfg.MailgunAPIKey != "" {
		mg = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}
	if _, err := ch.QueueDeclare(cfg.RabbitMQExportQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}
	msgs, err := ch.Consume(cfg.RabbitMQExportQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	w := &worker{
		resumes: pginfra.NewResumeRepository(pool),
		exports: pginfra.NewExportRepository(pool),
		rdb:     rdb,
		gcs:     gcsClient,
		bucket:  cfg.GCSBucket,
		pdf:     export.NewPDFRenderer(),
		docx:    export.NewDOCXBuilder(cfg.DocxTemplatePath),
		mg:      mg,
		logger:  logger,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var job export.Job
			if err := json.Unmarshal(msg.Body, &job); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}

			c, cancel := context.WithTimeout(ctx, jobTimeout)
			err := w.process(c, job)
			cancel()
			if err != nil {
				logger.WithError(err).WithField("job_id", job.JobID).Error("export failed")
				w.recordStatus(ctx, job, export.StatusFailed, "", err.Error())
				// Render and upload errors are not transient; do not requeue.
				_ = msg.Nack(false, false)
				continue
			}
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("export worker listening on queue=%s", cfg.RabbitMQExportQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}

type worker struct {
	resumes *pginfra.ResumeRepository
	exports *pginfra.ExportRepository
	rdb     *redis.Client
	gcs     *storage.Client
	bucket  string
	pdf     *export.PDFRenderer
	docx    *export.DOCXBuilder
	mg      *mailer.Mailgun
	logger  *logrus.Logger
}

var errDocumentGone = errors.New("document not found")

func (w *worker) process(ctx context.Context, job export.Job) error {
	docs, err := w.resumes.FetchAll(ctx, job.OwnerID)
	if err != nil {
		return err
	}
	var doc *entity.ResumeDocument
	for _, d := range docs {
		if d.ID == job.DocumentID {
			doc = d
			break
		}
	}
	if doc == nil {
		return errDocumentGone
	}

	var (
		data        []byte
		contentType string
		ext         string
	)
	switch job.Format {
	case export.FormatPDF:
		html, err := preview.Render(doc, entity.TemplateByID(doc.TemplateID))
		if err != nil {
			return err
		}
		data, err = w.pdf.Render(ctx, html)
		if err != nil {
			return err
		}
		contentType = "application/pdf"
		ext = "pdf"
	case export.FormatDOCX:
		data, err = w.docx.Build(doc)
		if err != nil {
			return err
		}
		contentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
		ext = "docx"
	default:
		return errors.New("unsupported format: " + string(job.Format))
	}

	object := "exports/" + job.OwnerID + "/" + job.JobID + "." + ext
	url, err := helpers.UploadObject(ctx, w.gcs, w.bucket, object, contentType, bytes.NewReader(data))
	if err != nil {
		return err
	}

	w.recordStatus(ctx, job, export.StatusCompleted, url, "")
	w.notify(ctx, job, doc, url)
	return nil
}

func (w *worker) recordStatus(ctx context.Context, job export.Job, status, url, errMsg string) {
	rec := export.StatusRecord{JobID: job.JobID, Status: status, Format: job.Format, URL: url, Error: errMsg}
	if err := w.exports.Record(ctx, job.OwnerID, job.DocumentID, rec); err != nil {
		w.logger.WithError(err).WithField("job_id", job.JobID).Warn("durable status write failed")
	}
	if err := helpers.RedisSetJSON(ctx, w.rdb, export.StatusKey(job.JobID), rec, 24*time.Hour); err != nil {
		w.logger.WithError(err).WithField("job_id", job.JobID).Warn("status write failed")
	}
}

func (w *worker) notify(ctx context.Context, job export.Job, doc *entity.ResumeDocument, url string) {
	if w.mg == nil || job.OwnerEmail == "" {
		return
	}
	subject, text, html, err := mailer.RenderExportReady(doc.Contact.FullName, string(job.Format), url)
	if err != nil {
		w.logger.WithError(err).Warn("mail render failed")
		return
	}
	c, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := w.mg.Send(c, job.OwnerEmail, subject, text, html); err != nil {
		w.logger.WithError(err).WithField("job_id", job.JobID).Warn("mail send failed")
	}
}
