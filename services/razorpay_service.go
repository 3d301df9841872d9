package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/swathoops/swathoops-api/config"
)

const razorpayBaseURL = "https://api.razorpay.com/v1"

// RazorpayOrder represents an order created with the payment gateway
type RazorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// RazorpayInterface defines the operations the order workflow needs from
// the payment gateway
type RazorpayInterface interface {
	// CreateOrder registers a payment intent with the gateway.
	// amount is in the gateway's minor units (INR paise).
	CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error)

	// VerifySignature checks a callback signature against the shared secret
	VerifySignature(orderID, paymentID, signature string) bool

	// KeyID returns the public key identifier safe to hand to clients
	KeyID() string
}

// RazorpayService talks to the Razorpay REST API
type RazorpayService struct {
	baseURL    string
	keyID      string
	keySecret  string
	httpClient *http.Client
}

var razorpayInstance RazorpayInterface

// InitRazorpayService initializes the gateway client from configuration
func InitRazorpayService(cfg *config.Config) RazorpayInterface {
	razorpayInstance = &RazorpayService{
		baseURL:   razorpayBaseURL,
		keyID:     cfg.RazorpayKeyID,
		keySecret: cfg.RazorpayKeySecret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	return razorpayInstance
}

// GetRazorpayService returns the initialized gateway instance
func GetRazorpayService() RazorpayInterface {
	return razorpayInstance
}

// SetRazorpayService sets the gateway instance (primarily for testing)
func SetRazorpayService(service RazorpayInterface) {
	razorpayInstance = service
}

// CreateOrder calls POST /orders on the gateway with basic auth
func (s *RazorpayService) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	payload := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(s.keyID, s.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call gateway: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var order RazorpayOrder
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode gateway response: %w", err)
	}

	return &order, nil
}

// VerifySignature recomputes the expected callback signature and compares
// it in constant time. The client-supplied signature is never trusted on
// its own.
func (s *RazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	expected := ComputeSignature(s.keySecret, orderID, paymentID)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// KeyID returns the public gateway key identifier
func (s *RazorpayService) KeyID() string {
	return s.keyID
}

// ComputeSignature produces the hex HMAC-SHA256 of "orderId|paymentId"
// under the gateway shared secret. This is the signature scheme Razorpay
// uses for checkout callbacks.
func ComputeSignature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}
