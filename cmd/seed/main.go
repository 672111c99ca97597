package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/starv8193-prog/ressonancia-social-v2/config"
	"github.com/starv8193-prog/ressonancia-social-v2/internal/domain/entity"
	"github.com/starv8193-prog/ressonancia-social-v2/pkg/helpers"
)

type seedProfile struct {
	id    string
	name  string
	bio   string
	color string
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	dsn := cfg.PostgresDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@ressonancia.dev"
	password := "password123"
	name := "Consciência_Demo"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO accounts (email, password_hash, name)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET name=EXCLUDED.name
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed account: %v", err)
	}
	fmt.Printf("seeded account: id=%s email=%s password=%s\n", id, email, password)

	// Seed ambient consciousness profiles so search and follow have targets.
	profiles := []seedProfile{
		{"user1", "Consciência_Alfa", "Primeira a ressoar.", "#3b82f6"},
		{"user2", "Consciência_Beta", "Observadora de padrões.", "#10b981"},
		{"user3", "Consciência_Gama", "Eco do coletivo.", "#f59e0b"},
	}

	now := time.Now()
	for _, p := range profiles {
		d := entity.DefaultUserData(now)
		d.Profile.Name = p.name
		d.Profile.Bio = p.bio
		d.Profile.IsPremium = true
		ps := entity.DefaultPremiumSettings()
		ps.ProfileColor = p.color
		d.Profile.PremiumSettings = ps

		doc, err := json.Marshal(d)
		if err != nil {
			log.Fatalf("failed to marshal seed profile: %v", err)
		}
		if _, err := db.Exec(`
			INSERT INTO user_data (identity_id, doc)
			VALUES ($1, $2)
			ON CONFLICT (identity_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()
		`, p.id, doc); err != nil {
			log.Fatalf("failed to seed user data for %s: %v", p.id, err)
		}
		fmt.Printf("seeded profile: id=%s name=%s\n", p.id, p.name)
	}

	// Index seed profiles into Elasticsearch when reachable.
	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Printf("elasticsearch unavailable, skipping index: %v", err)
		return
	}
	ctx := context.Background()
	for _, p := range profiles {
		d := entity.DefaultUserData(now)
		d.Profile.Name = p.name
		d.Profile.Bio = p.bio
		d.Profile.IsPremium = true
		ps := entity.DefaultPremiumSettings()
		ps.ProfileColor = p.color
		d.Profile.PremiumSettings = ps

		echo := d.Echo(p.id)
		b, _ := json.Marshal(echo)
		req := esapi.IndexRequest{Index: cfg.ESProfilesIndex, DocumentID: p.id, Body: strings.NewReader(string(b))}
		res, err := req.Do(ctx, es)
		if err != nil {
			log.Printf("index %s failed: %v", p.id, err)
			continue
		}
		_ = res.Body.Close()
		fmt.Printf("indexed profile: id=%s\n", p.id)
	}
}
