package ticketqr

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/skip2/go-qrcode"
)

// Payload is what the kiosk prints on the ticket and the gate scanner decodes.
type Payload struct {
	TicketID   int64    `json:"ticket_id"`
	MovieSlug  string   `json:"movie_slug"`
	DayOfWeek  string   `json:"day_of_week"`
	WeekNumber string   `json:"week_number"`
	Timeslot   string   `json:"timeslot"`
	Seats      []string `json:"seats"`
	Status     string   `json:"status"`
}

type Generator struct {
	aead cipher.AEAD
	size int
}

// NewGenerator derives an AES-256-GCM key from secret. An empty secret gets a
// random per-process key; codes then stop verifying after a restart.
func NewGenerator(secret string) (*Generator, error) {
	var key [32]byte
	if secret == "" {
		if _, err := io.ReadFull(rand.Reader, key[:]); err != nil {
			return nil, fmt.Errorf("generate qr key: %w", err)
		}
	} else {
		key = sha256.Sum256([]byte(secret))
	}

	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Generator{aead: aead, size: 256}, nil
}

// PNG renders the sealed payload as a QR code image.
func (g *Generator) PNG(p Payload) ([]byte, error) {
	sealed, err := g.Seal(p)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(sealed, qrcode.Medium, g.size)
}

func (g *Generator) Seal(p Payload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, g.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	out := g.aead.Seal(nonce, nonce, data, nil)
	return base64.RawURLEncoding.EncodeToString(out), nil
}

func (g *Generator) Open(token string) (*Payload, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("decode qr token: %w", err)
	}

	ns := g.aead.NonceSize()
	if len(raw) < ns {
		return nil, errors.New("qr token too short")
	}

	data, err := g.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return nil, fmt.Errorf("open qr token: %w", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decode qr payload: %w", err)
	}
	return &p, nil
}
