package jwt

import (
	"errors"
	"fmt"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"drawfour-server/internal/config"
	"drawfour-server/pkg/token"
)

// Issuer issues the JWT
const Issuer = "io.drawfour.server"

// Audience is the intended JWT audience
const Audience = "drawfour.io"

// Lifetime is how long a seat-session token remains valid
const Lifetime = 24 * time.Hour

var secret []byte

// LoadSecret initializes the signing secret
// If no secret is configured, a per-process random secret is generated, which
// means tokens do not survive a restart.
// this method should only be called once.
func LoadSecret() {
	cfg := config.Instance().JWT
	if cfg.Secret != "" {
		secret = []byte(cfg.Secret)
		return
	}

	generated, err := token.Generate(32)
	if err != nil {
		logrus.WithError(err).Fatal("could not generate a signing secret")
	}
	secret = []byte(generated)

	logrus.Warn("no jwt secret configured; seat tokens will not survive a restart")
}

// Seat identifies a seat in a room
type Seat struct {
	RoomID string
	SeatID string
}

type seatClaims struct {
	jwtgo.RegisteredClaims
	RoomID string `json:"roomId"`
}

// Sign will sign a seat-session JWT
func Sign(seat Seat) (string, error) {
	if secret == nil {
		panic("LoadSecret() not called")
	}

	now := time.Now()
	token := jwtgo.NewWithClaims(jwtgo.SigningMethodHS256, seatClaims{
		RegisteredClaims: jwtgo.RegisteredClaims{
			Audience:  jwtgo.ClaimStrings{Audience},
			ID:        uuid.New().String(),
			IssuedAt:  jwtgo.NewNumericDate(now),
			ExpiresAt: jwtgo.NewNumericDate(now.Add(Lifetime)),
			Issuer:    Issuer,
			Subject:   seat.SeatID,
		},
		RoomID: seat.RoomID,
	})

	return token.SignedString(secret)
}

// ValidSeat will validate a signed JWT and return the seat it grants
func ValidSeat(signedString string) (Seat, error) {
	if secret == nil {
		panic("LoadSecret() not called")
	}

	token, err := jwtgo.ParseWithClaims(signedString, &seatClaims{}, func(token *jwtgo.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwtgo.SigningMethodHMAC); !ok {
			return nil, errors.New("expected HS256 signing method")
		}

		return secret, nil
	})

	if err != nil {
		return Seat{}, err
	}

	if token.Valid {
		if claims, ok := token.Claims.(*seatClaims); ok {
			if !containsAudience(claims.Audience, Audience) {
				return Seat{}, errors.New("invalid audience")
			}

			if claims.Issuer != Issuer {
				return Seat{}, errors.New("invalid issuer")
			}

			return Seat{RoomID: claims.RoomID, SeatID: claims.Subject}, nil
		}

		return Seat{}, fmt.Errorf("expected seatClaims, got %T", token.Claims)
	}

	logrus.Warn("token claims were not valid. did not expect to reach this code")
	return Seat{}, errors.New("claims were not valid")
}

func containsAudience(audiences jwtgo.ClaimStrings, target string) bool {
	for _, aud := range audiences {
		if aud == target {
			return true
		}
	}
	return false
}
