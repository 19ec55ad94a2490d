package rpcapi

import "time"

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	UserID       string `json:"userId"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Proposal is the public record of a proposal.
type Proposal struct {
	ID            string     `json:"id"`
	SenderName    string     `json:"senderName"`
	RecipientName string     `json:"recipientName"`
	Letter        string     `json:"letter"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	ShareURL      string     `json:"shareUrl"`
}

// SentProposal is one row of the sender's own list.
type SentProposal struct {
	ID            string    `json:"id"`
	RecipientName string    `json:"recipientName"`
	CreatedAt     time.Time `json:"createdAt"`
	ShareURL      string    `json:"shareUrl"`
}

type CreateProposalRequest struct {
	RecipientName string `json:"recipientName"`
	Letter        string `json:"letter"`
	Keywords      string `json:"keywords"`
}

type CreateProposalResponse struct {
	Proposal Proposal `json:"proposal"`
}

type ListProposalsRequest struct{}

type ListProposalsResponse struct {
	Proposals []SentProposal `json:"proposals"`
}

type GetProposalRequest struct {
	ID string `json:"id"`
}

type GetProposalResponse struct {
	Proposal Proposal `json:"proposal"`
}

type DeleteProposalRequest struct {
	ID string `json:"id"`
}

type DeleteProposalResponse struct{}

type GenerateLetterRequest struct {
	RecipientName string `json:"recipientName"`
	Keywords      string `json:"keywords"`
}

type GenerateLetterResponse struct {
	Letter string `json:"letter"`
}

type RequestRingUploadRequest struct {
	ProposalID string `json:"proposalId"`
}

type RequestRingUploadResponse struct {
	Key       string `json:"key"`
	UploadURL string `json:"uploadUrl"`
}
