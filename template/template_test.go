package template_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/location"
	"github.com/oes-interview/engine/template"
)

func TestTemplate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "template suite")
}

var _ = Describe("Compile/Render", func() {
	It("passes literal text through unchanged", func() {
		tpl := template.MustCompile("hello world")
		out, err := tpl.Render(nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("hello world"))
	})

	It("interpolates a single variable", func() {
		tpl := template.MustCompile("hello {{ name }}!")
		out, err := tpl.Render(map[string]any{"name": "Ada"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("hello Ada!"))
	})

	It("interpolates multiple segments", func() {
		tpl := template.MustCompile("{{ a }}-{{ b }}")
		out, err := tpl.Render(map[string]any{"a": 1, "b": "x"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("1-x"))
	})

	It("renders booleans and nil", func() {
		tpl := template.MustCompile("{{ flag }}|{{ missing_but_const }}")
		out, err := tpl.Render(map[string]any{"flag": true, "missing_but_const": nil})
		_ = err
		Expect(out).To(Equal("true|"))
	})

	It("propagates UndefinedError from an interpolated expression", func() {
		tpl := template.MustCompile("hello {{ name }}")
		_, err := tpl.Render(map[string]any{})
		var undef *location.UndefinedError
		Expect(err).To(BeAssignableToTypeOf(undef))
	})

	It("rejects an unterminated {{ at compile time", func() {
		_, err := template.Compile("hello {{ name")
		Expect(err).To(HaveOccurred())
	})

	It("rejects an invalid expression at compile time", func() {
		_, err := template.Compile("{{ 1abc }}")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Parse (expressions)", func() {
	DescribeTable("literal and comparison evaluation",
		func(expr string, ctx map[string]any, want any) {
			e, err := template.Parse(expr)
			Expect(err).NotTo(HaveOccurred())
			v, err := e.Eval(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(v).To(Equal(want))
		},
		Entry("string literal", "'hi'", map[string]any{}, "hi"),
		Entry("int literal", "42", map[string]any{}, 42),
		Entry("true literal", "true", map[string]any{}, true),
		Entry("equality true", "a == 1", map[string]any{"a": 1}, true),
		Entry("equality false across type", "a == '1'", map[string]any{"a": 1}, false),
		Entry("int/float equality", "a == 1.0", map[string]any{"a": 1}, true),
		Entry("inequality", "a != 2", map[string]any{"a": 1}, true),
		Entry("less than", "a < 2", map[string]any{"a": 1}, true),
		Entry("greater or equal", "a >= 1", map[string]any{"a": 1}, true),
		Entry("string ordering", "a < 'b'", map[string]any{"a": "a"}, true),
		Entry("and short-circuits false", "false and a", map[string]any{}, false),
		Entry("or short-circuits true", "true or a", map[string]any{}, true),
		Entry("not", "not false", map[string]any{}, true),
		Entry("parenthesized", "(a == 1) and (b == 2)", map[string]any{"a": 1, "b": 2}, true),
	)

	It("propagates UndefinedError through and when the left side doesn't short-circuit", func() {
		e, err := template.Parse("true and missing")
		Expect(err).NotTo(HaveOccurred())
		_, err = e.Eval(map[string]any{})
		var undef *location.UndefinedError
		Expect(err).To(BeAssignableToTypeOf(undef))
	})

	It("resolves a location reference with index", func() {
		e, err := template.Parse("items[0] == 'x'")
		Expect(err).NotTo(HaveOccurred())
		v, err := e.Eval(map[string]any{"items": []any{"x"}})
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(true))
	})
})

var _ = Describe("Condition", func() {
	It("is always true when empty", func() {
		var c template.Condition
		ok, err := c.Matches(map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
	})

	It("combines multiple expressions by AND", func() {
		c, err := template.ParseCondition("a == 1", "b == 2")
		Expect(err).NotTo(HaveOccurred())

		ok, err := c.Matches(map[string]any{"a": 1, "b": 2})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())

		ok, err = c.Matches(map[string]any{"a": 1, "b": 3})
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("And composes two conditions without mutating the receiver", func() {
		c1, _ := template.ParseCondition("a == 1")
		c2, _ := template.ParseCondition("b == 2")
		combined := c1.And(c2)
		Expect(combined).To(HaveLen(2))
		Expect(c1).To(HaveLen(1))
	})

	It("propagates UndefinedError when a referenced variable is missing", func() {
		c, _ := template.ParseCondition("a == 1")
		_, err := c.Matches(map[string]any{})
		var undef *location.UndefinedError
		Expect(err).To(BeAssignableToTypeOf(undef))
	})
})
