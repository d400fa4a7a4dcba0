package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/resumeforge/resumeforge/config"
	"github.com/resumeforge/resumeforge/internal/domain/entity"
	"github.com/resumeforge/resumeforge/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@resumeforge.dev"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var userID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&userID)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", userID, email, password)

	doc := starterDocument(userID, email, name)
	raw, err := json.Marshal(doc)
	if err != nil {
		log.Fatalf("failed to marshal document: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO resumes (id, owner_id, template_id, document, last_modified)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, last_modified = EXCLUDED.last_modified
	`, doc.ID, doc.OwnerID, doc.TemplateID, raw, doc.LastModified); err != nil {
		log.Fatalf("failed to seed resume: %v", err)
	}
	fmt.Printf("seeded resume: id=%s template=%s\n", doc.ID, doc.TemplateID)
}

func starterDocument(ownerID, email, name string) *entity.ResumeDocument {
	doc := entity.NewResumeDocument(ownerID, "stem-modern")
	doc.LastModified = time.Now().UTC()
	doc.Contact = entity.Contact{
		FullName: name,
		Email:    email,
		Phone:    "+15555550123",
		Location: "Jakarta, Indonesia",
	}
	doc.Skills = []entity.Skill{
		{ID: "seed-skill-go", Name: "Go", Level: entity.SkillAdvanced},
		{ID: "seed-skill-sql", Name: "PostgreSQL", Level: entity.SkillIntermediate},
	}
	doc.Experience = []entity.Experience{
		{
			ID:        "seed-exp-1",
			Company:   "Acme Corp",
			Position:  "Backend Engineer",
			StartDate: "2022-01",
			Current:   true,
			Bullets: []string{
				"Built document pipelines handling 10k saves a day",
				"Cut p95 save latency from 900ms to 120ms",
			},
		},
	}
	return doc
}
