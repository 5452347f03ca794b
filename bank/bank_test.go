package bank_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/bank"
	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/question"
)

func TestBank(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "bank suite")
}

var _ = Describe("QuestionBank", func() {
	It("finds a question providing a location", func() {
		f := &field.TextField{Set: location.MustParse("name")}
		q := question.New("ask-name", nil, nil, []field.Field{f}, nil, nil, nil)
		b := bank.New([]*question.Question{q}, nil)

		Expect(b.ByID("ask-name")).To(Equal(q))

		matches, err := b.Providing(location.MustParse("name"), map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(ConsistOf(q))
	})

	It("preserves declaration order across multiple matches", func() {
		f1 := &field.TextField{Set: location.MustParse("name")}
		f2 := &field.TextField{Set: location.MustParse("name")}
		q1 := question.New("q1", nil, nil, []field.Field{f1}, nil, nil, nil)
		q2 := question.New("q2", nil, nil, []field.Field{f2}, nil, nil, nil)
		b := bank.New([]*question.Question{q1, q2}, nil)

		matches, err := b.Providing(location.MustParse("name"), map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(Equal([]*question.Question{q1, q2}))
	})

	It("last definition wins for duplicate question ids", func() {
		f1 := &field.TextField{Set: location.MustParse("a")}
		f2 := &field.TextField{Set: location.MustParse("b")}
		q1 := question.New("dup", nil, nil, []field.Field{f1}, nil, nil, nil)
		q2 := question.New("dup", nil, nil, []field.Field{f2}, nil, nil, nil)
		b := bank.New([]*question.Question{q1, q2}, nil)

		Expect(b.ByID("dup")).To(Equal(q2))
	})

	It("matches a variable-indexed provide location only once resolved under ctx", func() {
		f := &field.TextField{Set: location.MustParse("items[i].name")}
		q := question.New("item-name", nil, nil, []field.Field{f}, nil, nil, nil)
		b := bank.New([]*question.Question{q}, nil)

		matches, err := b.Providing(location.MustParse("items[0].name"), map[string]any{"i": 0})
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(ConsistOf(q))
	})

	It("returns no match for an unrelated location", func() {
		f := &field.TextField{Set: location.MustParse("a")}
		q := question.New("q1", nil, nil, []field.Field{f}, nil, nil, nil)
		b := bank.New([]*question.Question{q}, nil)

		matches, err := b.Providing(location.MustParse("b"), map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(matches).To(BeEmpty())
	})
})
