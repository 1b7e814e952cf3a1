package sim

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestVictimBuffer(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "VictimBuffer Suite")
}

func occupiedBlock(tag, index uint64, dirty bool) Block {
	b := newBlock(1)
	b.replace(tag, index, true)
	b.dirty = dirty
	return b
}

var _ = Describe("VictimBuffer", func() {
	It("reports disabled at capacity 0", func() {
		vb := NewVictimBuffer(0)
		Expect(vb.Enabled()).To(BeFalse())
	})

	It("finds an admitted entry by (tag, index)", func() {
		vb := NewVictimBuffer(2)
		vb.Push(occupiedBlock(0xA, 1, false))

		Expect(vb.Lookup(0xA, 1)).To(Equal(0))
		Expect(vb.Lookup(0xB, 1)).To(Equal(-1))
	})

	It("removes and compacts", func() {
		vb := NewVictimBuffer(3)
		vb.Push(occupiedBlock(0xA, 0, false))
		vb.Push(occupiedBlock(0xB, 0, false))

		b := vb.Remove(vb.Lookup(0xB, 0))
		Expect(b.tag).To(Equal(uint64(0xB)))
		Expect(vb.Len()).To(Equal(1))
		Expect(vb.Lookup(0xA, 0)).To(Equal(0))
	})

	It("expels the tail in strict FIFO order once over capacity", func() {
		vb := NewVictimBuffer(2)
		vb.Push(occupiedBlock(0x1, 0, false))
		vb.Push(occupiedBlock(0x2, 0, false))
		res := vb.Push(occupiedBlock(0x3, 0, true))

		Expect(res.expelled).To(BeTrue())
		Expect(res.expelledWasDirty).To(BeFalse()) // 0x1 was clean, not 0x3.
		Expect(vb.Len()).To(Equal(2))
	})

	It("never exceeds its configured capacity", func() {
		vb := NewVictimBuffer(2)
		for i := uint64(1); i <= 5; i++ {
			vb.Push(occupiedBlock(i, 0, false))
			Expect(vb.Len()).To(BeNumerically("<=", 2))
		}
	})

	It("clones blocks on admission so cache-side mutation is invisible", func() {
		b := occupiedBlock(0xA, 0, false)
		vb := NewVictimBuffer(1)
		vb.Push(b)

		b.valid[0] = false
		restored := vb.Remove(0)
		Expect(restored.valid[0]).To(BeTrue())
	})
})
