package ledger

import (
	"context"
	"fmt"
	"time"

	"nomur/internal/core/apperror"
	"nomur/internal/core/id"
	"nomur/internal/core/tx"
	"nomur/internal/core/types"
	"nomur/internal/domain/audit"
	"nomur/internal/domain/upload"
	"nomur/pkg/logger"
)

// RechargeRequest credits an agent balance.
type RechargeRequest struct {
	AgentID          string      `json:"agentId"`
	Amount           types.Money `json:"amount"`
	Reason           string      `json:"reason"`
	Proof            []string    `json:"proof,omitempty"`
	ProofFilename    string      `json:"proofFilename,omitempty"`
	Remark           string      `json:"remark,omitempty"`
	PaymentAccountID string      `json:"paymentAccountId,omitempty"`
}

// DeductRequest debits an agent balance. Amount is the positive
// magnitude; the stored row carries it negated.
type DeductRequest struct {
	AgentID   string         `json:"agentId"`
	Amount    types.Money    `json:"amount"`
	Reason    string         `json:"reason"`
	Remark    string         `json:"remark,omitempty"`
	ProductID string         `json:"productId,omitempty"`
	Quantity  types.Quantity `json:"quantity,omitempty"`
}

// TransferRequest moves balance between two agents: the sender is
// credited and the receiver debited, mirroring a physical stock
// reallocation.
type TransferRequest struct {
	FromAgentID string         `json:"fromAgentId"`
	ToAgentID   string         `json:"toAgentId"`
	Amount      types.Money    `json:"amount"`
	ProductID   string         `json:"productId,omitempty"`
	Quantity    types.Quantity `json:"quantity,omitempty"`
	Remark      string         `json:"remark,omitempty"`
}

// TransferResult carries the two entry ids of a transfer.
type TransferResult struct {
	InTxID  string `json:"inTxId"`
	OutTxID string `json:"outTxId"`
}

// Service is the transaction ledger. Every write moves the affected
// agent balance in the same database transaction as the ledger row, so
// balance always equals the sum of the agent's entries.
type Service struct {
	repo      Repository
	agents    AgentStore
	uploads   UploadStore
	trail     audit.Trail
	txManager tx.Manager
}

// NewService creates a new ledger service.
func NewService(repo Repository, agents AgentStore, uploads UploadStore, trail audit.Trail, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		agents:    agents,
		uploads:   uploads,
		trail:     trail,
		txManager: txManager,
	}
}

// List returns transactions newest first, optionally for one agent.
func (s *Service) List(ctx context.Context, agentID string) ([]*Transaction, error) {
	return s.repo.List(ctx, agentID)
}

// Recharge credits an agent. When a proof filename is supplied it is
// checked against past uploads first; a reused filename rejects the
// whole request before anything is written.
func (s *Service) Recharge(ctx context.Context, req RechargeRequest) (*Transaction, error) {
	if req.AgentID == "" {
		return nil, apperror.NewValidation("agent id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.NewValidation("recharge amount must be positive")
	}
	if req.Reason == "" {
		req.Reason = ReasonPayment
	}
	if !ValidReason(req.Reason) {
		return nil, apperror.NewValidation("unknown transaction reason: " + req.Reason)
	}

	entry := &Transaction{
		ID:               id.New().String(),
		AgentID:          req.AgentID,
		PaymentAccountID: req.PaymentAccountID,
		Type:             TypeRecharge,
		Reason:           req.Reason,
		Amount:           req.Amount,
		Proof:            req.Proof,
		Remark:           req.Remark,
		CreatedAt:        time.Now().UTC(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.agents.LockAgent(ctx, req.AgentID); err != nil {
			return err
		}

		if req.ProofFilename != "" {
			existing, err := s.uploads.FindByFilename(ctx, req.ProofFilename)
			if err != nil {
				return fmt.Errorf("check proof filename: %w", err)
			}
			if existing != nil {
				return apperror.NewDuplicate("this proof screenshot was already used").
					WithDetail("originalRecord", existing)
			}
			if err := s.uploads.Insert(ctx, &upload.Record{
				ID:         id.New().String(),
				Filename:   req.ProofFilename,
				UploadType: "recharge",
				RelatedID:  entry.ID,
				AgentID:    req.AgentID,
				CreatedAt:  entry.CreatedAt,
			}); err != nil {
				return fmt.Errorf("insert upload record: %w", err)
			}
		}

		if err := s.repo.Insert(ctx, entry); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := s.agents.AdjustBalance(ctx, req.AgentID, req.Amount); err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "agent recharged",
		"transaction_id", entry.ID,
		"agent_id", req.AgentID,
		"amount", req.Amount,
		"reason", req.Reason,
	)
	return entry, nil
}

// Deduct debits an agent. The stored amount is negative.
func (s *Service) Deduct(ctx context.Context, req DeductRequest) (*Transaction, error) {
	if req.AgentID == "" {
		return nil, apperror.NewValidation("agent id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.NewValidation("deduct amount must be positive")
	}
	if req.Reason == "" {
		req.Reason = ReasonOther
	}
	if !ValidReason(req.Reason) {
		return nil, apperror.NewValidation("unknown transaction reason: " + req.Reason)
	}

	entry := &Transaction{
		ID:        id.New().String(),
		AgentID:   req.AgentID,
		Type:      TypeDeduct,
		Reason:    req.Reason,
		Amount:    req.Amount.Neg(),
		Remark:    req.Remark,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		CreatedAt: time.Now().UTC(),
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.agents.LockAgent(ctx, req.AgentID); err != nil {
			return err
		}
		if err := s.repo.Insert(ctx, entry); err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
		if err := s.agents.AdjustBalance(ctx, req.AgentID, req.Amount.Neg()); err != nil {
			return fmt.Errorf("debit balance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "agent deducted",
		"transaction_id", entry.ID,
		"agent_id", req.AgentID,
		"amount", req.Amount,
		"reason", req.Reason,
	)
	return entry, nil
}

// Transfer credits the sending agent and debits the receiving agent in
// one transaction. Agent rows are locked in id order so two concurrent
// transfers touching the same pair cannot deadlock.
func (s *Service) Transfer(ctx context.Context, req TransferRequest) (*TransferResult, error) {
	if req.FromAgentID == "" || req.ToAgentID == "" {
		return nil, apperror.NewValidation("both transfer agents are required")
	}
	if req.FromAgentID == req.ToAgentID {
		return nil, apperror.NewValidation("transfer agents must be different")
	}
	if !req.Amount.IsPositive() {
		return nil, apperror.NewValidation("transfer amount must be positive")
	}

	var result TransferResult
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		first, second := req.FromAgentID, req.ToAgentID
		if second < first {
			first, second = second, first
		}
		if err := s.agents.LockAgent(ctx, first); err != nil {
			return err
		}
		if err := s.agents.LockAgent(ctx, second); err != nil {
			return err
		}

		fromName, err := s.agents.AgentName(ctx, req.FromAgentID)
		if err != nil {
			return apperror.NewNotFound("agent", req.FromAgentID)
		}
		toName, err := s.agents.AgentName(ctx, req.ToAgentID)
		if err != nil {
			return apperror.NewNotFound("agent", req.ToAgentID)
		}

		remarkIn := fmt.Sprintf("%s transfer", toName)
		remarkOut := fmt.Sprintf("transfer to %s", fromName)
		if req.Remark != "" {
			remarkIn = fmt.Sprintf("%s - %s", remarkIn, req.Remark)
			remarkOut = fmt.Sprintf("%s - %s", remarkOut, req.Remark)
		}

		now := time.Now().UTC()

		in := &Transaction{
			ID:             id.New().String(),
			AgentID:        req.FromAgentID,
			Type:           TypeRecharge,
			Reason:         ReasonTransferIn,
			Amount:         req.Amount,
			RelatedAgentID: req.ToAgentID,
			ProductID:      req.ProductID,
			Quantity:       req.Quantity,
			Remark:         remarkIn,
			CreatedAt:      now,
		}
		if err := s.repo.Insert(ctx, in); err != nil {
			return fmt.Errorf("insert transfer_in: %w", err)
		}
		if err := s.agents.AdjustBalance(ctx, req.FromAgentID, req.Amount); err != nil {
			return fmt.Errorf("credit sender: %w", err)
		}

		out := &Transaction{
			ID:             id.New().String(),
			AgentID:        req.ToAgentID,
			Type:           TypeDeduct,
			Reason:         ReasonTransferOut,
			Amount:         req.Amount.Neg(),
			RelatedAgentID: req.FromAgentID,
			Remark:         remarkOut,
			CreatedAt:      now,
		}
		if err := s.repo.Insert(ctx, out); err != nil {
			return fmt.Errorf("insert transfer_out: %w", err)
		}
		if err := s.agents.AdjustBalance(ctx, req.ToAgentID, req.Amount.Neg()); err != nil {
			return fmt.Errorf("debit receiver: %w", err)
		}

		result = TransferResult{InTxID: in.ID, OutTxID: out.ID}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "transfer recorded",
		"from_agent", req.FromAgentID,
		"to_agent", req.ToAgentID,
		"amount", req.Amount,
	)
	return &result, nil
}

// Update applies a privileged edit as undo-old, apply-new: the original
// entry's effect is reversed on its original agent before the new
// amount lands on the (possibly different) new agent. Account-scoped
// entries never touch agent balances.
func (s *Service) Update(ctx context.Context, updated *Transaction) error {
	if !ValidReason(updated.Reason) {
		return apperror.NewValidation("unknown transaction reason: " + updated.Reason)
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		original, err := s.repo.GetByIDForUpdate(ctx, updated.ID)
		if err != nil {
			return err
		}
		if original == nil {
			return apperror.NewNotFound("transaction", updated.ID)
		}

		next := &Transaction{
			ID:               original.ID,
			AgentID:          updated.AgentID,
			PaymentAccountID: updated.PaymentAccountID,
			Type:             original.Type,
			Reason:           updated.Reason,
			Amount:           updated.Amount,
			Proof:            updated.Proof,
			RelatedOrderID:   original.RelatedOrderID,
			RelatedAgentID:   original.RelatedAgentID,
			ProductID:        original.ProductID,
			Quantity:         original.Quantity,
			Remark:           updated.Remark,
			CreatedAt:        original.CreatedAt,
		}
		// Account-scoped edits keep the original agent attribution.
		if next.IsAccountScoped() && next.AgentID == "" {
			next.AgentID = original.AgentID
		}

		if err := s.repo.Update(ctx, next); err != nil {
			return fmt.Errorf("update transaction: %w", err)
		}

		amountDiff := next.Amount.Sub(original.Amount)
		agentChanged := original.AgentID != next.AgentID
		if !next.IsAccountScoped() && (!amountDiff.IsZero() || agentChanged) {
			// Undo the original effect.
			if original.AgentID != "" {
				if err := s.agents.LockAgent(ctx, original.AgentID); err != nil {
					return err
				}
				// Reverse the stored signed amount. Edits may flip the sign
				// away from what the type implies, so the sign is the truth.
				if err := s.agents.AdjustBalance(ctx, original.AgentID, original.Amount.Neg()); err != nil {
					return fmt.Errorf("undo original effect: %w", err)
				}
			}

			// Apply the new effect: the signed amount is the balance move.
			if next.AgentID != "" {
				if err := s.agents.LockAgent(ctx, next.AgentID); err != nil {
					return err
				}
				if err := s.agents.AdjustBalance(ctx, next.AgentID, next.Amount); err != nil {
					return fmt.Errorf("apply new effect: %w", err)
				}
			}
		}

		return s.trail.LogChange(ctx, "transaction", next.ID, audit.ActionUpdate, map[string]any{
			"amount":  map[string]any{"old": original.Amount, "new": next.Amount},
			"agentId": map[string]any{"old": original.AgentID, "new": next.AgentID},
			"reason":  map[string]any{"old": original.Reason, "new": next.Reason},
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction updated", "transaction_id", updated.ID)
	return nil
}

// Delete reverses the entry's balance effect and removes it. Entries
// linked to an order are refused; the order must be deleted instead so
// the cascade stays correct.
func (s *Service) Delete(ctx context.Context, transactionID string) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		original, err := s.repo.GetByIDForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if original == nil {
			return apperror.NewNotFound("transaction", transactionID)
		}
		if original.RelatedOrderID != "" {
			return apperror.NewReferenced("order-linked transactions cannot be deleted, delete the order instead")
		}

		if original.AgentID != "" {
			if err := s.agents.LockAgent(ctx, original.AgentID); err != nil {
				return err
			}
			if err := s.agents.AdjustBalance(ctx, original.AgentID, original.Amount.Neg()); err != nil {
				return fmt.Errorf("reverse balance effect: %w", err)
			}
		}

		if err := s.repo.Delete(ctx, transactionID); err != nil {
			return fmt.Errorf("delete transaction: %w", err)
		}

		return s.trail.LogChange(ctx, "transaction", transactionID, audit.ActionDelete, map[string]any{
			"agentId": original.AgentID,
			"type":    original.Type,
			"amount":  original.Amount,
		})
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "transaction deleted", "transaction_id", transactionID)
	return nil
}
