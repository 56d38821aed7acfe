package agents

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/africagold/goldintel/internal/config"
	"github.com/africagold/goldintel/internal/models"
)

const (
	maxOutreachDrafts   = 2
	contactCooldownDays = 30
)

// Partner is one row of the partner registry file.
type Partner struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Organization  string `json:"organization"`
	Email         string `json:"email"`
	LastContacted string `json:"last_contacted,omitempty"`
}

// OutreachStage drafts partnership emails for partners not contacted
// within the cooldown window. Drafts only; nothing is sent automatically.
type OutreachStage struct {
	cfg *config.Config
}

func NewOutreachStage(cfg *config.Config) *OutreachStage {
	return &OutreachStage{cfg: cfg}
}

func (s *OutreachStage) Name() string { return "outreach" }

func (s *OutreachStage) Run(snapshot *models.MarketSnapshot, rc *models.RunContext) (models.Payload, error) {
	partners, err := s.loadPartners()
	if err != nil {
		return nil, err
	}
	if len(partners) == 0 {
		return models.Payload{}, nil
	}

	due := pickContacts(partners, rc.Today)
	if len(due) == 0 {
		return models.Payload{}, nil
	}

	hook := fmt.Sprintf("Gold is at $%.2f (%+.2f%% today)", snapshot.Gold.Price, snapshot.Gold.DayChgPct)

	var drafts []string
	for _, p := range due {
		drafts = append(drafts, fmt.Sprintf(
			"To: %s <%s>\nSubject: Gold market data partnership with %s\n\nHi %s,\n\n%s and our daily Africa-focused briefing now covers karat pricing in six local currencies. "+
				"We think %s's audience would find the data useful, and we'd love to explore a content partnership.\n",
			p.Name, p.Email, p.Organization, p.Name, hook, p.Organization))
	}

	// A draft counts as contact: without the stamp the same partners would
	// be re-drafted every run.
	if err := s.markContacted(partners, due, rc.Today); err != nil {
		return nil, err
	}

	return models.Payload{
		"drafts": drafts,
		"count":  len(drafts),
	}, nil
}

func (s *OutreachStage) loadPartners() ([]Partner, error) {
	path := filepath.Join(s.cfg.DataDir, "partners.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read partner registry: %w", err)
	}
	var partners []Partner
	if err := json.Unmarshal(data, &partners); err != nil {
		return nil, fmt.Errorf("parse partner registry: %w", err)
	}
	return partners, nil
}

func (s *OutreachStage) markContacted(partners []Partner, drafted []Partner, today time.Time) error {
	stamp := today.Format("2006-01-02")
	draftedIDs := make(map[string]bool, len(drafted))
	for _, p := range drafted {
		draftedIDs[p.ID] = true
	}
	for i := range partners {
		if draftedIDs[partners[i].ID] {
			partners[i].LastContacted = stamp
		}
	}

	data, err := json.MarshalIndent(partners, "", "  ")
	if err != nil {
		return fmt.Errorf("encode partner registry: %w", err)
	}
	path := filepath.Join(s.cfg.DataDir, "partners.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("save partner registry: %w", err)
	}
	return nil
}

func pickContacts(partners []Partner, today time.Time) []Partner {
	var due []Partner
	for _, p := range partners {
		if len(due) >= maxOutreachDrafts {
			break
		}
		if p.Email == "" {
			continue
		}
		if p.LastContacted != "" {
			last, err := time.Parse("2006-01-02", p.LastContacted)
			if err == nil && today.Sub(last).Hours() < contactCooldownDays*24 {
				continue
			}
		}
		due = append(due, p)
	}
	return due
}
