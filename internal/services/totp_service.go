package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"finoffice-backend/internal/models"
)

const totpIssuer = "FinOffice"

// TOTPSetupResponse carries the secret and QR code for enrolling an
// authenticator app.
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

// TOTPStore is the slice of the account store the TOTP service needs.
type TOTPStore interface {
	GetByAccountID(ctx context.Context, accountID string) (*models.Account, error)
	SetTOTPSecret(ctx context.Context, accountID, secret string) error
	EnableTOTP(ctx context.Context, accountID string) error
}

type TOTPService struct {
	Store TOTPStore
}

func NewTOTPService(store TOTPStore) *TOTPService {
	return &TOTPService{Store: store}
}

// GenerateSetup creates a new TOTP secret for the account and returns it
// with a QR code. The secret is stored but not enabled until the first code
// verifies.
func (s *TOTPService) GenerateSetup(ctx context.Context, account *models.Account) (*TOTPSetupResponse, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: account.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return nil, err
	}

	if err := s.Store.SetTOTPSecret(ctx, account.AccountID, key.Secret()); err != nil {
		return nil, err
	}

	qrImage, err := key.Image(200, 200)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrImage); err != nil {
		return nil, err
	}

	return &TOTPSetupResponse{
		Secret:      key.Secret(),
		QRCode:      "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()),
		Issuer:      totpIssuer,
		AccountName: account.Email,
	}, nil
}

// Enable verifies the first code against the pending secret and switches
// TOTP on for the account.
func (s *TOTPService) Enable(ctx context.Context, accountID, code string) error {
	account, err := s.Store.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.TOTPSecret == "" {
		return fmt.Errorf("%w: no pending TOTP setup", ErrInvalidInput)
	}
	if !totp.Validate(code, account.TOTPSecret) {
		return errors.New("invalid verification code")
	}
	return s.Store.EnableTOTP(ctx, accountID)
}

// Verify checks a login code against the account's enabled secret.
func (s *TOTPService) Verify(ctx context.Context, accountID, code string) error {
	account, err := s.Store.GetByAccountID(ctx, accountID)
	if err != nil {
		return err
	}
	if !account.TOTPEnabled {
		return fmt.Errorf("%w: TOTP is not enabled for this account", ErrInvalidInput)
	}
	if !totp.Validate(code, account.TOTPSecret) {
		return errors.New("invalid verification code")
	}
	return nil
}
