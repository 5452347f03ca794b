package location_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/oes-interview/engine/location"
)

func TestLocation(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "location suite")
}

var _ = Describe("Parse", func() {
	DescribeTable("valid locations round-trip through String()",
		func(expr string) {
			loc, err := location.Parse(expr)
			Expect(err).NotTo(HaveOccurred())

			reparsed, err := location.Parse(loc.String())
			Expect(err).NotTo(HaveOccurred())
			Expect(reparsed.String()).To(Equal(loc.String()))
		},
		Entry("plain name", "a"),
		Entry("attribute chain", "a.b.c"),
		Entry("index with literal", "a[0]"),
		Entry("index with nested location", "f[x]"),
		Entry("mixed chain", "a.b[c].d[0]"),
	)

	It("tolerates whitespace between tokens", func() {
		loc, err := location.Parse(" a . b [ 0 ] ")
		Expect(err).NotTo(HaveOccurred())
		Expect(loc.String()).To(Equal("a.b[0]"))
	})

	It("rejects trailing input", func() {
		_, err := location.Parse("a.b extra")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a name starting with a digit", func() {
		_, err := location.Parse("1abc")
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Evaluate", func() {
	It("looks up a top-level name", func() {
		ctx := map[string]any{"a": "hi"}
		loc := location.MustParse("a")
		v, err := location.Evaluate(loc, ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("hi"))
	})

	It("raises UndefinedError for a missing name", func() {
		loc := location.MustParse("missing")
		_, err := location.Evaluate(loc, map[string]any{})
		var undef *location.UndefinedError
		Expect(err).To(BeAssignableToTypeOf(undef))
	})

	It("carries the deepest-defined prefix plus the first missing step", func() {
		ctx := map[string]any{"a": map[string]any{}}
		loc := location.MustParse("a.b.c")
		_, err := location.Evaluate(loc, ctx)
		undef, ok := err.(*location.UndefinedError)
		Expect(ok).To(BeTrue())
		Expect(undef.Location.String()).To(Equal("a.b"))
	})

	It("evaluates an indexed location with a const index", func() {
		ctx := map[string]any{"f": []any{"x", "y"}}
		loc := location.MustParse("f[1]")
		v, err := location.Evaluate(loc, ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("y"))
	})

	It("evaluates an indexed location with a variable index", func() {
		ctx := map[string]any{"f": map[string]any{"x": "found"}, "k": "x"}
		loc := location.MustParse("f[k]")
		v, err := location.Evaluate(loc, ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal("found"))
	})
})

var _ = Describe("Assign", func() {
	It("creates or overwrites a top-level name", func() {
		ctx := map[string]any{}
		Expect(location.Assign(location.MustParse("a"), "v", ctx)).To(Succeed())
		Expect(ctx["a"]).To(Equal("v"))
	})

	It("assigns into an existing nested map", func() {
		ctx := map[string]any{"a": map[string]any{}}
		Expect(location.Assign(location.MustParse("a.b"), 1, ctx)).To(Succeed())
		Expect(ctx["a"].(map[string]any)["b"]).To(Equal(1))
	})

	It("rejects assigning to a Const", func() {
		err := location.Assign(location.Const{Value: 1}, "v", map[string]any{})
		Expect(err).To(HaveOccurred())
	})

	It("rejects an out-of-range list index", func() {
		ctx := map[string]any{"a": []any{1, 2}}
		err := location.Assign(location.MustParse("a[5]"), 9, ctx)
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("EvaluateIndexes", func() {
	It("rewrites a variable index into a Const", func() {
		ctx := map[string]any{"x": 1}
		loc := location.MustParse("f[x]")
		norm, err := location.EvaluateIndexes(loc, ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(norm.String()).To(Equal("f[1]"))
	})

	It("is idempotent on a location with only const indexes", func() {
		loc := location.MustParse("f[0]")
		norm, err := location.EvaluateIndexes(loc, map[string]any{})
		Expect(err).NotTo(HaveOccurred())
		Expect(norm.String()).To(Equal("f[0]"))
	})
})
