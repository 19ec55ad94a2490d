package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/heartlink/internal/common"
	"github.com/dmitrijs2005/heartlink/internal/dbx"
	"github.com/dmitrijs2005/heartlink/internal/links"
	"github.com/dmitrijs2005/heartlink/internal/logging"
	"github.com/dmitrijs2005/heartlink/internal/server/events"
	"github.com/dmitrijs2005/heartlink/internal/server/metrics"
	"github.com/dmitrijs2005/heartlink/internal/server/models"
	"github.com/dmitrijs2005/heartlink/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

const (
	MaxRecipientNameLength = 100
	MaxLetterLength        = 10000

	// DefaultLetter is used when neither a letter nor keywords are given.
	DefaultLetter = "Will you marry me?"
)

// ProposalOptions holds the settings ProposalService needs from config.
type ProposalOptions struct {
	PublicBaseURL string
	// DefaultRingModelKey is shown for proposals without a custom model.
	DefaultRingModelKey string
}

type ProposalService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	letters     LetterWriter
	rings       RingURLs
	publisher   events.Publisher
	metrics     *metrics.Metrics
	logger      logging.Logger
	opts        ProposalOptions
	now         func() time.Time
}

func NewProposalService(
	db *sql.DB,
	m repomanager.RepositoryManager,
	letters LetterWriter,
	rings RingURLs,
	publisher events.Publisher,
	mt *metrics.Metrics,
	logger logging.Logger,
	opts ProposalOptions,
) *ProposalService {
	return &ProposalService{
		db:          db,
		repomanager: m,
		letters:     letters,
		rings:       rings,
		publisher:   publisher,
		metrics:     mt,
		logger:      logger.With("module", "proposals"),
		opts:        opts,
		now:         time.Now,
	}
}

// ShareURL is the link the sender hands to the recipient.
func (s *ProposalService) ShareURL(id string) string {
	return links.ProposalURL(s.opts.PublicBaseURL, id)
}

// Create stores a new pending proposal from senderID. An empty letter is
// written by the model when keywords are given, and defaults to
// DefaultLetter otherwise.
func (s *ProposalService) Create(ctx context.Context, senderID, recipientName, letter, keywords string) (*models.Proposal, error) {
	recipientName = strings.TrimSpace(recipientName)
	letter = strings.TrimSpace(letter)
	keywords = strings.TrimSpace(keywords)

	if recipientName == "" {
		return nil, fmt.Errorf("%w: recipient name is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(recipientName) > MaxRecipientNameLength {
		return nil, fmt.Errorf("%w: recipient name is too long", common.ErrorValidation)
	}

	sender, err := s.repomanager.Users(s.db).GetByID(ctx, senderID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if letter == "" && keywords != "" {
		letter, err = s.letters.Generate(ctx, recipientName, keywords)
		if err != nil {
			return nil, err
		}
	}
	if letter == "" {
		letter = DefaultLetter
	}
	if utf8.RuneCountInString(letter) > MaxLetterLength {
		return nil, fmt.Errorf("%w: letter is too long", common.ErrorValidation)
	}

	p := &models.Proposal{
		ID:            uuid.NewString(),
		SenderID:      sender.ID,
		SenderName:    sender.Username,
		RecipientName: recipientName,
		Letter:        letter,
		Status:        models.StatusPending,
		CreatedAt:     s.now().UTC(),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Proposals(tx).Create(ctx, p); err != nil {
			return err
		}
		return s.repomanager.SentProposals(tx).Create(ctx, &models.SentProposal{
			ID:            p.ID,
			UserID:        p.SenderID,
			RecipientName: p.RecipientName,
			CreatedAt:     p.CreatedAt,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("error creating proposal: %w", err)
	}

	s.metrics.ProposalCreated()
	s.logger.Info(ctx, "proposal created", "proposal_id", p.ID, "sender_id", p.SenderID)
	return p, nil
}

// Get returns the public record. Malformed ids are simply not found.
func (s *ProposalService) Get(ctx context.Context, id string) (*models.Proposal, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}
	return s.repomanager.Proposals(s.db).GetByID(ctx, id)
}

// ListSent returns the sender's private list, newest first.
func (s *ProposalService) ListSent(ctx context.Context, userID string) ([]models.SentProposal, error) {
	return s.repomanager.SentProposals(s.db).ListByUser(ctx, userID)
}

// RespondResult is the proposal after an answer, plus where to fetch the
// ring model when it was accepted.
type RespondResult struct {
	Proposal     *models.Proposal
	RingModelURL string
}

// Respond records the recipient's answer. Only pending proposals can be
// answered; repeating the recorded answer is a no-op and a different one
// fails with common.ErrAlreadyAnswered.
func (s *ProposalService) Respond(ctx context.Context, id, answer string) (*RespondResult, error) {
	if !models.IsAnswer(answer) {
		return nil, fmt.Errorf("%w: answer must be %q or %q", common.ErrorValidation, models.StatusAccepted, models.StatusRejected)
	}

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	switch p.Status {
	case answer:
		return s.respondResult(ctx, p), nil
	case models.StatusPending:
	default:
		return nil, common.ErrAlreadyAnswered
	}

	at := s.now().UTC()
	if err := s.repomanager.Proposals(s.db).UpdateStatus(ctx, id, models.StatusPending, answer, at); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		// Answered concurrently; judge against what was stored.
		if p, err = s.Get(ctx, id); err != nil {
			return nil, err
		}
		if p.Status != answer {
			return nil, common.ErrAlreadyAnswered
		}
		return s.respondResult(ctx, p), nil
	}

	p.Status = answer
	p.RespondedAt = &at

	s.metrics.ProposalAnswered(answer)
	s.logger.Info(ctx, "proposal answered", "proposal_id", id, "status", answer)

	e := events.Event{Type: events.TypeProposalAnswered, ProposalID: p.ID, SenderID: p.SenderID, Status: answer, At: at}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.logger.Warn(ctx, "publishing proposal event failed", "proposal_id", id, "error", err)
	}

	return s.respondResult(ctx, p), nil
}

func (s *ProposalService) respondResult(ctx context.Context, p *models.Proposal) *RespondResult {
	res := &RespondResult{Proposal: p}
	if p.Status != models.StatusAccepted {
		return res
	}

	url, err := s.RingModelURL(ctx, p)
	if err != nil {
		s.logger.Warn(ctx, "presigning ring model failed", "proposal_id", p.ID, "error", err)
		return res
	}
	res.RingModelURL = url
	return res
}

// RingModelURL presigns the proposal's ring model, or the default one.
func (s *ProposalService) RingModelURL(ctx context.Context, p *models.Proposal) (string, error) {
	key := p.RingModelKey
	if key == "" {
		key = s.opts.DefaultRingModelKey
	}
	return s.rings.PresignGet(ctx, key)
}

// Delete removes both records of a proposal. Only its sender may do so.
func (s *ProposalService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return err
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Proposals(tx).Delete(ctx, id); err != nil {
			return err
		}
		return s.repomanager.SentProposals(tx).Delete(ctx, userID, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "proposal deleted", "proposal_id", id)
	return nil
}

// RequestRingUpload attaches a fresh ring model key to the proposal and
// returns the URL the sender uploads the model to.
func (s *ProposalService) RequestRingUpload(ctx context.Context, userID, id string) (key, url string, err error) {
	if _, err := s.owned(ctx, userID, id); err != nil {
		return "", "", err
	}

	key, url, err = s.rings.PresignPut(ctx)
	if err != nil {
		return "", "", err
	}
	if err := s.repomanager.Proposals(s.db).SetRingModelKey(ctx, id, key); err != nil {
		return "", "", err
	}
	return key, url, nil
}

// CanWatch reports, as an error, whether userID may follow live updates of
// the proposal.
func (s *ProposalService) CanWatch(ctx context.Context, userID, id string) error {
	_, err := s.owned(ctx, userID, id)
	return err
}

func (s *ProposalService) owned(ctx context.Context, userID, id string) (*models.Proposal, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.SenderID != userID {
		return nil, common.ErrorForbidden
	}
	return p, nil
}
