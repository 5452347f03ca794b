package stepper_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/bank"
	"github.com/oes-interview/engine/field"
	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/question"
	"github.com/oes-interview/engine/state"
	"github.com/oes-interview/engine/step"
	"github.com/oes-interview/engine/stepper"
	"github.com/oes-interview/engine/template"
)

func TestStepper(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "stepper suite")
}

func freshState() *state.InterviewState {
	return &state.InterviewState{
		Data:              map[string]any{},
		Context:           map[string]any{},
		AnsweredQuestions: map[string]bool{},
	}
}

var _ = Describe("Advance", func() {
	It("asks then completes a two-field question", func() {
		q1 := question.New("q1", nil, nil, []field.Field{
			&field.TextField{Set: location.MustParse("first_name")},
			&field.TextField{Set: location.MustParse("last_name")},
		}, nil, nil, nil)
		qb := bank.New([]*question.Question{q1}, nil)
		steps, err := step.Flatten([]step.StepOrBlock{step.Ask{AskID: "q1"}})
		Expect(err).NotTo(HaveOccurred())
		deps := step.Deps{Bank: qb}

		st := freshState()
		next, result, err := stepper.Advance(context.Background(), st, steps, deps, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ask).NotTo(BeNil())
		Expect(next.QuestionID).To(Equal("q1"))

		final, result, err := stepper.Advance(context.Background(), next, steps, deps, &stepper.Response{
			Fields: map[string]any{"field_0": "fname", "field_1": " lname "},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Complete).To(BeTrue())
		Expect(final.Data["first_name"]).To(Equal("fname"))
		Expect(final.Data["last_name"]).To(Equal("lname"))
	})

	It("exits when the submitted text is empty, else completes", func() {
		q := question.New("q", nil, nil, []field.Field{
			&field.TextField{Set: location.MustParse("text"), Optional: true},
		}, nil, nil, nil)
		qb := bank.New([]*question.Question{q}, nil)

		emptyCond, err := template.ParseCondition("not text")
		Expect(err).NotTo(HaveOccurred())
		steps, err := step.Flatten([]step.StepOrBlock{
			step.Ask{AskID: "q"},
			step.Exit{Title: template.MustCompile("Required"), When: emptyCond},
		})
		Expect(err).NotTo(HaveOccurred())
		deps := step.Deps{Bank: qb}

		st := freshState()
		asked, _, err := stepper.Advance(context.Background(), st, steps, deps, nil)
		Expect(err).NotTo(HaveOccurred())

		exited, result, err := stepper.Advance(context.Background(), asked, steps, deps, &stepper.Response{
			Fields: map[string]any{"field_0": " "},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Exit).NotTo(BeNil())
		Expect(result.Exit.Title).To(Equal("Required"))
		_ = exited

		completed, result, err := stepper.Advance(context.Background(), asked, steps, deps, &stepper.Response{
			Fields: map[string]any{"field_0": "test"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Complete).To(BeTrue())
		Expect(completed.Data["text"]).To(Equal("test"))
	})

	It("recursively resolves dependent questions in order", func() {
		q2 := question.New("q2", nil, nil, []field.Field{&field.TextField{Set: location.MustParse("c")}}, nil, nil, nil)
		q3 := question.New("q3", nil, template.MustCompile("uses {{ c }}"), []field.Field{&field.TextField{Set: location.MustParse("d")}}, nil, nil, nil)
		dCond, err := template.ParseCondition("d == 'y'")
		Expect(err).NotTo(HaveOccurred())
		q4 := question.New("q4", nil, nil, []field.Field{&field.TextField{Set: location.MustParse("e")}}, nil, nil, dCond)
		qb := bank.New([]*question.Question{q2, q3, q4}, nil)

		eExpr, err := template.Parse("e")
		Expect(err).NotTo(HaveOccurred())
		steps, err := step.Flatten([]step.StepOrBlock{step.Eval{Exprs: []step.ValueOrExpr{{Expr: eExpr}}}})
		Expect(err).NotTo(HaveOccurred())
		deps := step.Deps{Bank: qb}

		st := freshState()
		_, result, err := stepper.Advance(context.Background(), st, steps, deps, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ask.QuestionID).To(Equal("q2"))

		st.Data["c"] = "x"
		_, result, err = stepper.Advance(context.Background(), st, steps, deps, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ask.QuestionID).To(Equal("q3"))

		st.Data["d"] = "y"
		_, result, err = stepper.Advance(context.Background(), st, steps, deps, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ask.QuestionID).To(Equal("q4"))
	})

	It("skips a Set that would not change already-defined data, firing the conditional-always Set last", func() {
		aLoc := location.MustParse("a")
		aExpr, err := template.Parse("a")
		Expect(err).NotTo(HaveOccurred())
		bExpr, err := template.Parse("b")
		Expect(err).NotTo(HaveOccurred())
		notXCond, err := template.ParseCondition("a != 'x'")
		Expect(err).NotTo(HaveOccurred())

		q := question.New("qb", nil, nil, []field.Field{&field.TextField{Set: location.MustParse("b")}}, nil, nil, nil)
		qb := bank.New([]*question.Question{q}, nil)

		steps, err := step.Flatten([]step.StepOrBlock{
			step.Set{Target: aLoc, Value: step.ValueOrExpr{Literal: "a"}},
			step.Set{Target: aLoc, Value: step.ValueOrExpr{Literal: "x"}},
			step.Eval{Exprs: []step.ValueOrExpr{{Expr: aExpr}, {Expr: bExpr}}},
			step.Set{Target: aLoc, Value: step.ValueOrExpr{Literal: "x"}, Always: true, When: notXCond},
		})
		Expect(err).NotTo(HaveOccurred())
		deps := step.Deps{Bank: qb}

		st := freshState()
		asked, result, err := stepper.Advance(context.Background(), st, steps, deps, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Ask).NotTo(BeNil())
		Expect(result.Ask.QuestionID).To(Equal("qb"))
		Expect(asked.Data["a"]).To(Equal("a"))

		final, result, err := stepper.Advance(context.Background(), asked, steps, deps, &stepper.Response{
			Fields: map[string]any{"field_0": "b"},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Complete).To(BeTrue())
		Expect(final.Data["a"]).To(Equal("x"))
	})
})
