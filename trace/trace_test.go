package trace

import (
	"io"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestTrace(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Trace Suite")
}

var _ = Describe("Reader", func() {
	It("parses read and write records in either case", func() {
		r := NewReader(strings.NewReader("r 10\nW 2a\nw 0\nR f\n"))

		rec, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(Equal(Record{Mode: Read, Address: 0x10}))

		rec, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(Equal(Record{Mode: Write, Address: 0x2a}))

		rec, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(Equal(Record{Mode: Write, Address: 0}))

		rec, err = r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec).To(Equal(Record{Mode: Read, Address: 0xf}))
	})

	It("returns io.EOF once the stream is exhausted", func() {
		r := NewReader(strings.NewReader("r 1\n"))

		_, err := r.Next()
		Expect(err).NotTo(HaveOccurred())

		_, err = r.Next()
		Expect(err).To(MatchError(io.EOF))
	})

	It("skips blank lines between records", func() {
		r := NewReader(strings.NewReader("r 1\n\n\nw 2\n"))

		_, err := r.Next()
		Expect(err).NotTo(HaveOccurred())

		rec, err := r.Next()
		Expect(err).NotTo(HaveOccurred())
		Expect(rec.Address).To(Equal(uint64(2)))
	})

	It("fails fatally on an unknown access mode", func() {
		r := NewReader(strings.NewReader("x 1\n"))

		_, err := r.Next()
		Expect(err).To(HaveOccurred())
		Expect(err).NotTo(MatchError(io.EOF))
	})

	It("fails fatally on a malformed line", func() {
		r := NewReader(strings.NewReader("garbage\n"))

		_, err := r.Next()
		Expect(err).To(HaveOccurred())
	})
})
