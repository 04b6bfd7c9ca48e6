package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pipequote/internal/database"
	"pipequote/internal/domain"
	"pipequote/internal/modules/pricing"
	"pipequote/internal/pkg/publictoken"
	"pipequote/internal/repository"
)

type seedQuote struct {
	jobNumber string
	customer  string
	address   string
	lines     []domain.PipeLine
	digging   domain.Digging
	extras    []domain.ExtraItem
	status    domain.QuoteStatus
	archived  bool
	deleted   bool
}

func main() {
	db, err := database.Connect("pipequote.db")
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := repository.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	if err := db.Exec("DELETE FROM quotes").Error; err != nil {
		log.Fatal("cleanup failed:", err)
	}

	repo := repository.NewQuoteRepository(db)
	table := pricing.DefaultTable()
	ctx := context.Background()

	seeds := []seedQuote{
		{
			jobNumber: "4821", customer: "Margaret Wilson", address: "14 Acacia St, Eltham VIC 3095",
			lines:  []domain.PipeLine{{Size: domain.Pipe100, Meters: 12, Junctions: 1}},
			status: domain.QuoteSent,
		},
		{
			jobNumber: "4837", customer: "Tom Nguyen", address: "3/88 High St, Preston VIC 3072",
			lines:   []domain.PipeLine{{Size: domain.Pipe100, Meters: 6.5, Junctions: 2}, {Size: domain.Pipe150, Meters: 4, Junctions: 0}},
			digging: domain.Digging{Enabled: true, Hours: 3},
			extras:  []domain.ExtraItem{{Note: "CCTV inspection", Amount: 350}},
			status:  domain.QuoteAwaitingPayment,
		},
		{
			jobNumber: "4790", customer: "Elena Petrova", address: "27 Banksia Ave, Doncaster VIC 3108",
			lines:  []domain.PipeLine{{Size: domain.Pipe150, Meters: 18, Junctions: 3}},
			status: domain.QuoteCompleted, archived: true,
		},
		{
			jobNumber: "4755", customer: "Sam O'Brien", address: "102 Station Rd, Rosanna VIC 3084",
			lines:  []domain.PipeLine{{Size: domain.Pipe100, Meters: 9, Junctions: 0}},
			status: domain.QuoteLost, deleted: true,
		},
	}

	for _, s := range seeds {
		now := time.Now().UTC()
		totals := table.Compute(pricing.Input{Lines: s.lines, Digging: s.digging, Extras: s.extras})

		payload, _ := json.Marshal(map[string]any{
			"job_number":    s.jobNumber,
			"customer_name": s.customer,
			"job_address":   s.address,
			"lines":         s.lines,
			"digging":       s.digging,
			"extras":        s.extras,
		})

		q := &domain.Quote{
			PublicID:        publictoken.NewPublicID(),
			PublicToken:     publictoken.NewToken(),
			JobNumber:       s.jobNumber,
			CustomerName:    s.customer,
			JobAddress:      s.address,
			Totals:          totals,
			Payload:         payload,
			Status:          s.status,
			StatusUpdatedAt: now,
			Archived:        s.archived,
			CreatedAt:       now,
		}
		if s.archived {
			t := now
			q.ArchivedAt = &t
		}
		if s.deleted {
			t := now
			q.DeletedAt = &t
		}

		if err := repo.Create(ctx, q); err != nil {
			log.Fatal("seed insert failed:", err)
		}
		fmt.Printf("seeded quote %s (%s) grand_total=%.2f /q/%s?t=%s\n",
			q.JobNumber, q.Status, q.Totals.GrandTotal, q.PublicID, q.PublicToken)
	}

	log.Println("Done.")
}
