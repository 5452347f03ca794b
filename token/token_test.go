package token_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/token"
)

func TestToken(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "token suite")
}

func testKey(seed byte) *[token.KeySize]byte {
	var k [token.KeySize]byte
	for i := range k {
		k[i] = seed
	}
	return &k
}

var _ = Describe("Encrypt/Decrypt", func() {
	It("round-trips a state with second-precision timestamps", func() {
		key := testKey(1)
		s := &state.InterviewState{
			SubmissionID:      "sub-1",
			InterviewID:       "test1",
			InterviewVersion:  "v1",
			ExpirationDate:    time.Now().UTC().Truncate(time.Second),
			TargetURL:         "https://example.com/done",
			Context:           map[string]any{},
			AnsweredQuestions: map[string]bool{"q1": true},
			Data:              map[string]any{"a": "b"},
		}
		encoded, err := token.Encrypt(s, key)
		Expect(err).NotTo(HaveOccurred())

		decoded, err := token.Decrypt(encoded, key)
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.SubmissionID).To(Equal(s.SubmissionID))
		Expect(decoded.InterviewVersion).To(Equal(s.InterviewVersion))
		Expect(decoded.ExpirationDate.Equal(s.ExpirationDate)).To(BeTrue())
		Expect(decoded.AnsweredQuestions).To(Equal(s.AnsweredQuestions))
		Expect(decoded.Data).To(Equal(s.Data))
	})

	It("fails to decrypt after a ciphertext byte is flipped", func() {
		key := testKey(2)
		s := &state.InterviewState{ExpirationDate: time.Now().UTC(), Data: map[string]any{}, Context: map[string]any{}}
		encoded, err := token.Encrypt(s, key)
		Expect(err).NotTo(HaveOccurred())

		tampered := []byte(encoded)
		flipPos := len(tampered) - 5
		if tampered[flipPos] == 'A' {
			tampered[flipPos] = 'B'
		} else {
			tampered[flipPos] = 'A'
		}

		_, err = token.Decrypt(string(tampered), key)
		Expect(err).To(HaveOccurred())
		var invalid *token.InvalidStateError
		Expect(err).To(BeAssignableToTypeOf(invalid))
	})

	It("fails to decrypt with the wrong key", func() {
		key := testKey(3)
		wrongKey := testKey(4)
		s := &state.InterviewState{ExpirationDate: time.Now().UTC(), Data: map[string]any{}, Context: map[string]any{}}
		encoded, err := token.Encrypt(s, key)
		Expect(err).NotTo(HaveOccurred())

		_, err = token.Decrypt(encoded, wrongKey)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Validate", func() {
	It("rejects an expired state", func() {
		s := &state.InterviewState{ExpirationDate: time.Unix(1000, 0), InterviewVersion: "v1"}
		err := token.Validate(s, "v1", time.Unix(1000, 0))
		Expect(err).To(HaveOccurred())
	})

	It("rejects a version mismatch", func() {
		s := &state.InterviewState{ExpirationDate: time.Now().Add(time.Hour), InterviewVersion: "v1"}
		err := token.Validate(s, "v2", time.Now())
		Expect(err).To(HaveOccurred())
	})

	It("accepts a current, unexpired state", func() {
		s := &state.InterviewState{ExpirationDate: time.Now().Add(time.Hour), InterviewVersion: "v1"}
		err := token.Validate(s, "v1", time.Now())
		Expect(err).NotTo(HaveOccurred())
	})
})
