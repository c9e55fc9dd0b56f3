package solana

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/soluna-labs/soluna-access-service/internal/domain"
)

func rpcServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL)
}

func TestGetLatestBlockhash(t *testing.T) {
	client := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":{"value":{"blockhash":"EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N"}}}`))
	})

	blockhash, err := client.GetLatestBlockhash(context.Background())
	if err != nil {
		t.Fatalf("GetLatestBlockhash failed: %v", err)
	}
	if blockhash != "EkSnNWid2cvwEVnVx9aBqawnmiCNiDgp3gUdkDPTKN1N" {
		t.Errorf("unexpected blockhash %q", blockhash)
	}
}

func TestServerErrorsAreTransient(t *testing.T) {
	client := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.GetLatestBlockhash(context.Background())
	if !domain.IsTransient(err) {
		t.Errorf("5xx must map to a transient error, got %v", err)
	}
}

func TestRPCErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		message string
		check   func(error) bool
	}{
		{
			name:    "expired blockhash",
			message: "Blockhash not found",
			check:   func(err error) bool { return errors.Is(err, domain.ErrBlockhashExpired) },
		},
		{
			name:    "insufficient funds",
			message: "Transfer: insufficient lamports 100, need 200",
			check:   func(err error) bool { return errors.Is(err, domain.ErrInsufficientFunds) },
		},
		{
			name:    "duplicate submission",
			message: "This transaction has already been processed",
			check:   func(err error) bool { return errors.Is(err, domain.ErrDuplicateSignature) },
		},
		{
			name:    "unhealthy node is transient",
			message: "Node is behind by 150 slots",
			check:   domain.IsTransient,
		},
		{
			name:    "anything else is a definitive rejection",
			message: "Transaction signature verification failure",
			check: func(err error) bool {
				var rejected *domain.LedgerRejectedError
				return errors.As(err, &rejected)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapRPCError(&rpcError{Code: -32002, Message: tt.message})
			if !tt.check(err) {
				t.Errorf("message %q mapped to %v", tt.message, err)
			}
		})
	}
}

func TestGetSignatureStatus(t *testing.T) {
	tests := []struct {
		name string
		body string
		want domain.SignatureStatus
	}{
		{
			name: "finalized",
			body: `{"result":{"value":[{"confirmationStatus":"finalized","err":null}]}}`,
			want: domain.SignatureConfirmed,
		},
		{
			name: "processed is still pending",
			body: `{"result":{"value":[{"confirmationStatus":"processed","err":null}]}}`,
			want: domain.SignaturePending,
		},
		{
			name: "on-ledger failure",
			body: `{"result":{"value":[{"confirmationStatus":"finalized","err":{"InstructionError":[0,"Custom"]}}]}}`,
			want: domain.SignatureFailed,
		},
		{
			name: "unknown signature",
			body: `{"result":{"value":[null]}}`,
			want: domain.SignatureNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := rpcServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			status, err := client.GetSignatureStatus(context.Background(), "sig")
			if err != nil {
				t.Fatalf("GetSignatureStatus failed: %v", err)
			}
			if status != tt.want {
				t.Errorf("status = %s, want %s", status, tt.want)
			}
		})
	}
}
