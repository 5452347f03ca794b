// Package token implements the state codec from spec §4.9: canonical
// JSON serialization of InterviewState, NaCl SecretBox authenticated
// encryption, and validation against expiration/version.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/nacl/secretbox"

	"github.com/oes-interview/engine/state"
)

// KeySize is the required symmetric key length for secretbox (spec §4.9:
// "32-byte key").
const KeySize = 32

// InvalidStateError collapses every decode/verify failure into one
// opaque error, deliberately not distinguishing decryption from parsing
// failure (spec §4.9).
type InvalidStateError struct {
	cause error
}

func (e *InvalidStateError) Error() string { return "interview state is not valid" }
func (e *InvalidStateError) Unwrap() error { return e.cause }

// wireState is the canonical JSON form: struct fields are declared in
// alphabetical order by their json tag so Go's encoding/json emits keys
// sorted, per spec §4.9; timestamps are RFC 3339 UTC via time.Time's
// default MarshalJSON, and answered_question_ids is emitted as a sorted
// array.
type wireState struct {
	AnsweredQuestions []string       `json:"answered_question_ids"`
	Complete          bool           `json:"complete"`
	Context           map[string]any `json:"context"`
	Data              map[string]any `json:"data"`
	ExpirationDate    time.Time      `json:"expiration_date"`
	InterviewID       string         `json:"interview_id"`
	InterviewVersion  string         `json:"interview_version"`
	QuestionID        string         `json:"question_id,omitempty"`
	SubmissionID      string         `json:"submission_id"`
	TargetURL         string         `json:"target_url"`
}

func toWire(s *state.InterviewState) wireState {
	ids := make([]string, 0, len(s.AnsweredQuestions))
	for id := range s.AnsweredQuestions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return wireState{
		SubmissionID:      s.SubmissionID,
		InterviewID:       s.InterviewID,
		InterviewVersion:  s.InterviewVersion,
		ExpirationDate:    s.ExpirationDate.UTC(),
		TargetURL:         s.TargetURL,
		Complete:          s.Complete,
		Context:           s.Context,
		AnsweredQuestions: ids,
		QuestionID:        s.QuestionID,
		Data:              s.Data,
	}
}

func fromWire(w wireState) *state.InterviewState {
	answered := make(map[string]bool, len(w.AnsweredQuestions))
	for _, id := range w.AnsweredQuestions {
		answered[id] = true
	}
	ctx := w.Context
	if ctx == nil {
		ctx = map[string]any{}
	}
	data := w.Data
	if data == nil {
		data = map[string]any{}
	}
	return &state.InterviewState{
		SubmissionID:      w.SubmissionID,
		InterviewID:       w.InterviewID,
		InterviewVersion:  w.InterviewVersion,
		ExpirationDate:    w.ExpirationDate.UTC(),
		TargetURL:         w.TargetURL,
		Complete:          w.Complete,
		Context:           ctx,
		AnsweredQuestions: answered,
		QuestionID:        w.QuestionID,
		Data:              data,
	}
}

// Encrypt serializes s to canonical JSON and seals it with secretbox
// under a fresh random nonce, returning `nonce || box` encoded as
// URL-safe base64 without padding (spec §4.9).
func Encrypt(s *state.InterviewState, key *[KeySize]byte) (string, error) {
	plaintext, err := json.Marshal(toWire(s))
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	sealed := secretbox.Seal(nonce[:], plaintext, &nonce, key)
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any failure — malformed base64, too-short
// payload, authentication failure, or malformed JSON — collapses into a
// single *InvalidStateError (spec §4.9).
func Decrypt(token string, key *[KeySize]byte) (*state.InterviewState, error) {
	sealed, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(token)
	if err != nil {
		return nil, &InvalidStateError{cause: err}
	}
	if len(sealed) < 24 {
		return nil, &InvalidStateError{cause: fmt.Errorf("token too short")}
	}
	var nonce [24]byte
	copy(nonce[:], sealed[:24])

	plaintext, ok := secretbox.Open(nil, sealed[24:], &nonce, key)
	if !ok {
		return nil, &InvalidStateError{cause: fmt.Errorf("decryption failed")}
	}

	var w wireState
	if err := json.Unmarshal(plaintext, &w); err != nil {
		return nil, &InvalidStateError{cause: err}
	}
	return fromWire(w), nil
}

// Validate rejects an expired state, or one whose InterviewVersion
// doesn't match currentVersion when currentVersion is non-empty (spec
// §4.9).
func Validate(s *state.InterviewState, currentVersion string, now time.Time) error {
	if s.IsExpired(now) {
		return fmt.Errorf("interview state has expired")
	}
	if currentVersion != "" && !s.IsCurrentVersion(currentVersion) {
		return fmt.Errorf("interview state version mismatch")
	}
	return nil
}
