package application

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
	repo "github.com/resumeforge/resumeforge/internal/domain/repository"
	"github.com/resumeforge/resumeforge/pkg/export"
	"github.com/resumeforge/resumeforge/pkg/helpers"
	"github.com/resumeforge/resumeforge/pkg/validation"
)

var (
	ErrResumeNotFound = errors.New("resume not found")
	ErrExportDisabled = errors.New("export queue not configured")
)

const snapshotTTL = 10 * time.Minute

func snapshotKey(email string) string {
	return "resume:latest:" + email
}

// ResumeService is the server side of the persistence gateway: it validates,
// stores and retrieves documents, mirrors them into the search index, caches
// the latest snapshot, and enqueues export jobs. It satisfies
// workspace.Gateway.
type ResumeService struct {
	Repo    repo.ResumeRepository
	Users   repo.UserRepository
	Exports repo.ExportRepository
	Redis   *redis.Client
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
	Pub     *helpers.RabbitPublisher
}

func NewResumeService(r repo.ResumeRepository, users repo.UserRepository, exports repo.ExportRepository, rdb *redis.Client, logger *logrus.Logger, es *elasticsearch.Client, esIndex string, pub *helpers.RabbitPublisher) *ResumeService {
	return &ResumeService{Repo: r, Users: users, Exports: exports, Redis: rdb, Logger: logger, ES: es, ESIndex: esIndex, Pub: pub}
}

// FetchAll returns all documents owned by ownerID; zero documents is an
// empty slice, not an error.
func (s *ResumeService) FetchAll(ctx context.Context, ownerID string) ([]*entity.ResumeDocument, error) {
	return s.Repo.FetchAll(ctx, ownerID)
}

// Save validates the document, persists it under ownerID, refreshes the
// snapshot cache and the search index, and returns the confirmed state.
func (s *ResumeService) Save(ctx context.Context, ownerID string, doc *entity.ResumeDocument) (*entity.ResumeDocument, error) {
	if err := validation.ValidateDocument(doc); err != nil {
		return nil, err
	}
	confirmed, err := s.Repo.Save(ctx, ownerID, doc)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil && confirmed.Contact.Email != "" {
		if err := helpers.RedisSetJSON(ctx, s.Redis, snapshotKey(confirmed.Contact.Email), confirmed, snapshotTTL); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("document_id", confirmed.ID).Warn("snapshot cache write failed")
		}
	}
	_ = s.indexDocument(ctx, confirmed)
	return confirmed, nil
}

// SaveForEmail persists a document for the user registered under email.
// This is the unauthenticated legacy path; the owner is resolved from the
// email and stamped onto the document before the normal save runs.
func (s *ResumeService) SaveForEmail(ctx context.Context, email, templateID string, doc *entity.ResumeDocument) (*entity.ResumeDocument, error) {
	u, err := s.Users.GetByEmail(email)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.OwnerID = u.ID
	if templateID != "" {
		doc.TemplateID = templateID
	}
	if doc.LastModified.IsZero() {
		doc.LastModified = time.Now().UTC()
	}
	return s.Save(ctx, u.ID, doc)
}

// ResumeByEmail returns the owner's most recently modified document,
// serving the cached snapshot when present.
func (s *ResumeService) ResumeByEmail(ctx context.Context, email string) (*entity.ResumeDocument, error) {
	if s.Redis != nil {
		var cached entity.ResumeDocument
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, snapshotKey(email), &cached); err == nil && ok {
			return &cached, nil
		}
	}
	doc, err := s.Repo.GetByOwnerEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ResumesByEmail returns all documents owned by the user with the given
// email, newest first. Zero documents yields an empty list.
func (s *ResumeService) ResumesByEmail(ctx context.Context, email string) ([]*entity.ResumeDocument, error) {
	docs, err := s.Repo.ListByOwnerEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []*entity.ResumeDocument{}, nil
		}
		return nil, err
	}
	return docs, nil
}

// EnqueueExport records a pending export job and publishes it to the export
// queue. The worker picks it up, renders the artifact, and updates status.
func (s *ResumeService) EnqueueExport(ctx context.Context, ownerID, ownerEmail, documentID string, format export.Format) (string, error) {
	if s.Pub == nil {
		return "", ErrExportDisabled
	}
	job := export.Job{
		JobID:      uuid.NewString(),
		OwnerID:    ownerID,
		OwnerEmail: ownerEmail,
		DocumentID: documentID,
		Format:     format,
	}
	rec := export.StatusRecord{JobID: job.JobID, Status: export.StatusPending, Format: format}
	if s.Exports != nil {
		if err := s.Exports.Record(ctx, ownerID, documentID, rec); err != nil {
			return "", err
		}
	}
	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, export.StatusKey(job.JobID), rec, 24*time.Hour); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("job_id", job.JobID).Warn("export status write failed")
		}
	}
	if err := s.Pub.PublishJSON(ctx, job); err != nil {
		return "", err
	}
	return job.JobID, nil
}

// ExportStatus returns the current state of an export job: the hot Redis
// copy when present, the durable row otherwise.
func (s *ResumeService) ExportStatus(ctx context.Context, jobID string) (*export.StatusRecord, error) {
	if s.Redis != nil {
		var rec export.StatusRecord
		if ok, err := helpers.RedisGetJSON(ctx, s.Redis, export.StatusKey(jobID), &rec); err == nil && ok {
			return &rec, nil
		}
	}
	if s.Exports == nil {
		return nil, ErrResumeNotFound
	}
	rec, err := s.Exports.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrResumeNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *ResumeService) indexDocument(ctx context.Context, doc *entity.ResumeDocument) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	skills := make([]string, 0, len(doc.Skills))
	for _, sk := range doc.Skills {
		skills = append(skills, sk.Name)
	}
	companies := make([]string, 0, len(doc.Experience))
	for _, e := range doc.Experience {
		companies = append(companies, e.Company)
	}
	institutions := make([]string, 0, len(doc.Education))
	for _, e := range doc.Education {
		institutions = append(institutions, e.Institution)
	}
	esDoc := map[string]any{
		"id":            doc.ID,
		"owner_id":      doc.OwnerID,
		"template_id":   doc.TemplateID,
		"full_name":     doc.Contact.FullName,
		"email":         doc.Contact.Email,
		"skills":        skills,
		"companies":     companies,
		"institutions":  institutions,
		"last_modified": doc.LastModified.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(esDoc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: doc.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("document_id", doc.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("document_id", doc.ID).Warn("es index response error")
	}
	return nil
}

// SearchResumes performs a multi_match search over names, skills, companies
// and institutions.
func (s *ResumeService) SearchResumes(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"full_name^2", "skills", "companies", "institutions"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
