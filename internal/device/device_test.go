package device

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/clock"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/kernel"
)

var _ = Describe("Sim", func() {
	var (
		k     *kernel.Kernel
		ports *dut.Ports
		dev   *Sim
		ctx   context.Context
	)

	BeforeEach(func() {
		clk, err := clock.New(10, clock.Nanosecond)
		Expect(err).NotTo(HaveOccurred())
		k = kernel.New(clk, nil)
		ports = dut.NewPorts(k, 8)
		k.Attach(dut.NewBlock("dut", ports, dut.NewConstant(128)))
		dev = NewSim(k, ports)
		ctx = context.Background()
	})

	It("should drive reset active-low", func() {
		Expect(dev.SetReset(true)).To(Succeed())
		Expect(ports.RstN.High()).To(BeFalse())

		Expect(dev.SetReset(false)).To(Succeed())
		Expect(ports.RstN.High()).To(BeTrue())
	})

	It("should write inputs straight to the nets", func() {
		Expect(dev.SetSetpoint(128)).To(Succeed())
		Expect(dev.SetFeedback(75)).To(Succeed())

		Expect(ports.Setpoint.Value()).To(BeEquivalentTo(128))
		Expect(ports.Feedback.Value()).To(BeEquivalentTo(75))
	})

	It("should reject values wider than the port", func() {
		err := dev.SetFeedback(256)
		Expect(err).To(MatchError(bench.ErrOutOfRange))
	})

	It("should report the port width", func() {
		Expect(dev.Width()).To(BeEquivalentTo(8))
	})

	It("should expose the controller output after the edge", func() {
		Expect(dev.SetReset(true)).To(Succeed())
		Expect(dev.AwaitNextEdge(ctx)).To(Succeed())
		Expect(dev.ReadControlOutput()).To(BeEquivalentTo(0))

		Expect(dev.SetReset(false)).To(Succeed())
		Expect(dev.ReadControlOutput()).To(BeEquivalentTo(0))

		Expect(dev.AwaitNextEdge(ctx)).To(Succeed())
		Expect(dev.ReadControlOutput()).To(BeEquivalentTo(128))
		Expect(k.Cycles()).To(BeEquivalentTo(2))
	})

	It("should advance one clock period per edge", func() {
		for i := 0; i < 5; i++ {
			Expect(dev.AwaitNextEdge(ctx)).To(Succeed())
		}
		Expect(dev.Kernel().Now()).To(BeEquivalentTo(40))
	})

	It("should report cancellation", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		err := dev.AwaitNextEdge(canceled)
		Expect(err).To(MatchError(bench.ErrCanceled))
	})
})
