package report

import (
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/aksiksi/cachesim/sim"
)

func TestReport(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Report Suite")
}

var _ = Describe("Write", func() {
	It("prints the counters with Accesses ahead of the average access time", func() {
		c := sim.Counters{
			Accesses: 10,
			Reads:    6,
			Writes:   4,
		}

		var buf strings.Builder
		Expect(Write(&buf, c)).To(Succeed())

		out := buf.String()
		Expect(out).To(ContainSubstring("Accesses: 10"))
		Expect(out).To(ContainSubstring("Reads: 6"))
		Expect(out).To(ContainSubstring("Writes: 4"))

		accessesIdx := strings.Index(out, "Accesses:")
		aatIdx := strings.Index(out, "Average access time (AAT):")
		Expect(accessesIdx).To(BeNumerically(">=", 0))
		Expect(aatIdx).To(BeNumerically(">", accessesIdx))
	})
})
