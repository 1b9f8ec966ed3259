package scenario

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	gomock "go.uber.org/mock/gomock"

	"github.com/dsatizabal/pid-controller/internal/bench"
	"github.com/dsatizabal/pid-controller/internal/device"
	"github.com/dsatizabal/pid-controller/internal/dut"
	"github.com/dsatizabal/pid-controller/internal/metrics"
	"github.com/dsatizabal/pid-controller/internal/monitor"
	"github.com/dsatizabal/pid-controller/internal/signal"
)

var _ = Describe("Driver", func() {
	var (
		mockCtrl *gomock.Controller
		dev      *device.MockDevice
		drv      *Driver
		ctx      context.Context
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		dev = device.NewMockDevice(mockCtrl)
		dev.EXPECT().Width().Return(signal.Width(8)).AnyTimes()
		drv = New(nil)
		ctx = context.Background()
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should reset the device before the first cycle", func() {
		cfg := DefaultConfig()
		cfg.Policy = monitor.Policy{TotalCycles: 1, SettlingCycleThreshold: 1, ToleranceFinal: 100}

		gomock.InOrder(
			dev.EXPECT().SetSetpoint(signal.Value(128)).Return(nil),
			dev.EXPECT().SetFeedback(signal.Value(75)).Return(nil),
			dev.EXPECT().SetReset(true).Return(nil),
			dev.EXPECT().AwaitNextEdge(gomock.Any()).Return(nil),
			dev.EXPECT().SetReset(false).Return(nil),
			dev.EXPECT().AwaitNextEdge(gomock.Any()).Return(nil),
			dev.EXPECT().ReadControlOutput().Return(signal.Value(128)),
			dev.EXPECT().SetFeedback(signal.Value(77)).Return(nil),
		)

		result, err := drv.Run(ctx, dev, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.CyclesRun).To(Equal(1))
		Expect(result.FinalFeedback).To(BeEquivalentTo(77))
	})

	It("should wait one edge per cycle and feed the plant response back", func() {
		cfg := DefaultConfig()
		cfg.Policy = monitor.Policy{TotalCycles: 3, SettlingCycleThreshold: 3, ToleranceFinal: 100}

		dev.EXPECT().SetSetpoint(gomock.Any()).Return(nil)
		dev.EXPECT().SetReset(gomock.Any()).Return(nil).Times(2)
		dev.EXPECT().AwaitNextEdge(gomock.Any()).Return(nil).Times(4)
		dev.EXPECT().ReadControlOutput().Return(signal.Value(0)).Times(3)
		gomock.InOrder(
			dev.EXPECT().SetFeedback(signal.Value(75)).Return(nil),
			dev.EXPECT().SetFeedback(signal.Value(73)).Return(nil),
			dev.EXPECT().SetFeedback(signal.Value(71)).Return(nil),
			dev.EXPECT().SetFeedback(signal.Value(69)).Return(nil),
		)

		result, err := drv.Run(ctx, dev, cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Outcome).To(Equal(bench.OutcomeConverged))
		Expect(result.FinalError).To(BeEquivalentTo(59))
	})

	It("should reject a config that does not fit the device", func() {
		cfg := DefaultConfig()
		cfg.Setpoint = 300

		_, err := drv.Run(ctx, dev, cfg)
		Expect(err).To(MatchError(bench.ErrOutOfRange))
	})

	It("should reject an invalid policy", func() {
		cfg := DefaultConfig()
		cfg.Policy.SettlingCycleThreshold = 200

		_, err := drv.Run(ctx, dev, cfg)
		Expect(err).To(MatchError(bench.ErrInvalidPolicy))
	})

	It("should abort when the edge wait fails", func() {
		cfg := DefaultConfig()
		canceled := errors.New("edge lost")

		dev.EXPECT().SetSetpoint(gomock.Any()).Return(nil)
		dev.EXPECT().SetFeedback(gomock.Any()).Return(nil)
		dev.EXPECT().SetReset(gomock.Any()).Return(nil).Times(2)
		gomock.InOrder(
			dev.EXPECT().AwaitNextEdge(gomock.Any()).Return(nil),
			dev.EXPECT().AwaitNextEdge(gomock.Any()).Return(canceled),
		)

		result, err := drv.Run(ctx, dev, cfg)
		Expect(err).To(MatchError(canceled))
		Expect(result.Outcome).To(Equal(bench.OutcomeAborted))
		Expect(result.CyclesRun).To(Equal(0))
	})
})

var _ = Describe("Closed loop", func() {
	var (
		drv      *Driver
		recorder *Recorder
		ctx      context.Context
	)

	BeforeEach(func() {
		drv = New(nil)
		recorder = NewRecorder(100)
		drv.AddObserver(recorder)
		for _, m := range metrics.Defaults(2) {
			drv.AddMetric(m)
		}
		ctx = context.Background()
	})

	It("should converge monotonically under a constant output", func() {
		result, err := drv.Run(ctx, simDevice(dut.NewConstant(128)), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Passed()).To(BeTrue())
		Expect(result.FinalError).To(BeZero())

		records := recorder.Records()
		Expect(records).To(HaveLen(100))
		for i := 1; i < len(records); i++ {
			Expect(records[i].Feedback).To(BeNumerically(">=", records[i-1].Feedback))
		}
		Expect(records[26].Feedback).To(BeEquivalentTo(128))
		Expect(records[25].Feedback).To(BeEquivalentTo(127))
		Expect(result.Metrics["settle_cycle"]).To(Equal(25.0))
		Expect(result.Metrics["overshoot"]).To(BeZero())
		Expect(result.Metrics["max_warming_error"]).To(Equal(51.0))
		Expect(result.Metrics["max_settling_error"]).To(BeZero())
	})

	It("should pass trivially when feedback starts at the setpoint", func() {
		cfg := DefaultConfig()
		cfg.InitialFeedback = 128

		result, err := drv.Run(ctx, simDevice(dut.NewConstant(128)), cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Passed()).To(BeTrue())
		for _, rec := range recorder.Records() {
			Expect(rec.Error).To(BeZero())
		}
		Expect(result.Metrics["max_abs_error"]).To(BeZero())
		Expect(result.Metrics["settle_cycle"]).To(BeZero())
	})

	It("should raise a settling violation at cycle 90 for an unreachable target", func() {
		result, err := drv.Run(ctx, simDevice(dut.NewConstant(200)), DefaultConfig())
		Expect(err).To(MatchError(bench.ErrSettlingViolation))
		Expect(result.Outcome).To(Equal(bench.OutcomeFailed))

		Expect(result.Violation).NotTo(BeNil())
		Expect(result.Violation.Cycle).To(Equal(90))
		Expect(result.Violation.Feedback).To(BeEquivalentTo(200))
		Expect(result.Violation.Setpoint).To(BeEquivalentTo(128))
		Expect(result.CyclesRun).To(Equal(91))
		Expect(recorder.Records()).To(HaveLen(91))
		Expect(result.Metrics["max_settling_error"]).To(Equal(72.0))
	})

	It("should lock the plant below the setpoint for a wide 100/156 alternation", func() {
		result, err := drv.Run(ctx, simDevice(dut.NewAlternating(100, 156)), DefaultConfig())
		Expect(err).To(MatchError(bench.ErrSettlingViolation))
		Expect(result.Violation.Cycle).To(Equal(90))
		Expect(result.Violation.Feedback).To(BeEquivalentTo(100))
		Expect(result.Violation.Deviation).To(BeEquivalentTo(28))
	})

	It("should tolerate settling ripple that ends within the final band", func() {
		result, err := drv.Run(ctx, simDevice(dut.NewAlternating(124, 132)), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Passed()).To(BeTrue())

		records := recorder.Records()
		Expect(records[90].Error).To(BeEquivalentTo(4))
		Expect(result.FinalFeedback).To(BeEquivalentTo(126))
		Expect(result.FinalError).To(BeEquivalentTo(2))
	})

	It("should fail the final check when settling ripple stays too wide", func() {
		cfg := DefaultConfig()
		cfg.Policy.ToleranceFinal = 1

		result, err := drv.Run(ctx, simDevice(dut.NewAlternating(124, 132)), cfg)
		Expect(err).To(MatchError(bench.ErrFinalConvergence))
		Expect(result.Violation.Phase).To(Equal(bench.PhaseFinal))
		Expect(result.Violation.Cycle).To(Equal(100))
		Expect(result.CyclesRun).To(Equal(100))
	})

	It("should converge with the reference PID design", func() {
		gains := dut.DefaultPIDGains()
		result, err := drv.Run(ctx, simDevice(dut.NewPID(gains, 8)), DefaultConfig())
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Passed()).To(BeTrue())
		Expect(result.FinalFeedback).To(BeEquivalentTo(129))

		records := recorder.Records()
		Expect(records[0].ControlOutput).To(BeEquivalentTo(72))
		Expect(records[0].Feedback).To(BeEquivalentTo(73))
		for _, rec := range records[90:] {
			Expect(rec.Error).To(BeNumerically("<=", 5))
			Expect(rec.Error).To(BeNumerically(">=", -5))
		}
	})

	It("should stop between cycles when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		drv.AddObserver(bench.ObserverFunc(func(rec bench.CycleRecord) {
			if rec.Cycle == 9 {
				cancel()
			}
		}))

		result, err := drv.Run(canceled, simDevice(dut.NewConstant(128)), DefaultConfig())
		Expect(err).To(MatchError(bench.ErrCanceled))
		Expect(result.Outcome).To(Equal(bench.OutcomeAborted))
		Expect(result.CyclesRun).To(Equal(10))
		Expect(result.Metrics).To(HaveKeyWithValue("max_settling_error", 0.0))
	})
})
