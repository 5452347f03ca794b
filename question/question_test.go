package question_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/question"
	"github.com/oes-interview/engine/template"
)

func TestQuestion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "question suite")
}

var _ = Describe("Question", func() {
	It("computes provides once from fields with a set target", func() {
		f1 := &field.TextField{Set: location.MustParse("a")}
		f2 := &field.TextField{} // no set target
		q := question.New("q1", nil, nil, []field.Field{f1, f2}, nil, nil, nil)

		Expect(q.Provides()).To(HaveLen(1))
		Expect(q.Provides()).To(HaveKey("a"))
	})

	It("parses field responses by field_i shape", func() {
		f1 := &field.TextField{Set: location.MustParse("name")}
		q := question.New("q1", nil, nil, []field.Field{f1}, nil, nil, nil)

		result, err := q.ParseResponse(map[string]any{"field_0": "Ada"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(HaveLen(1))
		for loc, v := range result {
			Expect(loc.String()).To(Equal("name"))
			Expect(v).To(Equal("Ada"))
		}
	})

	It("requires a button when buttons are defined", func() {
		q := question.New("q1", nil, nil, nil, []question.Button{{Label: template.MustCompile("Yes")}}, nil, nil)
		_, err := q.ParseResponse(nil, nil)
		Expect(err).To(HaveOccurred())
	})

	It("records buttons_set when a button is chosen", func() {
		buttons := []question.Button{
			{Label: template.MustCompile("Yes"), Value: true},
			{Label: template.MustCompile("No"), Value: false},
		}
		q := question.New("q1", nil, nil, nil, buttons, location.MustParse("agreed"), nil)
		idx := 0
		result, err := q.ParseResponse(nil, &idx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(HaveLen(1))
		for loc, v := range result {
			Expect(loc.String()).To(Equal("agreed"))
			Expect(v).To(Equal(true))
		}
	})

	It("ignores a submitted button when buttons is undefined", func() {
		q := question.New("q1", nil, nil, nil, nil, nil, nil)
		idx := 3
		result, err := q.ParseResponse(nil, &idx)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(BeEmpty())
	})

	It("rejects an invalid button index", func() {
		buttons := []question.Button{{Label: template.MustCompile("Yes")}}
		q := question.New("q1", nil, nil, nil, buttons, nil, nil)
		idx := 5
		_, err := q.ParseResponse(nil, &idx)
		Expect(err).To(HaveOccurred())
	})

	It("renders ask fields for every field", func() {
		f1 := &field.TextField{Label: template.MustCompile("Name")}
		q := question.New("q1", nil, nil, []field.Field{f1}, nil, nil, nil)
		asks, err := q.AskFields(map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(asks).To(HaveKey("field_0"))
		Expect(asks["field_0"].Label).To(Equal("Name"))
	})
})
