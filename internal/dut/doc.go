// Package dut provides behavioural models of the controller-under-test.
//
// A model is a [Controller] wrapped in a [Block], which binds it to the four
// device ports and makes it a synchronous kernel unit:
//
//   - [PID]: integer PID with output saturation, the reference design
//   - [Constant]: drives a fixed output every cycle
//   - [Alternating]: cycles through a list of outputs
//
// # Usage
//
//	ports := dut.NewPorts(k, 8)
//	k.Attach(dut.NewBlock("pid", ports, dut.NewPID(dut.DefaultPIDGains(), 8)))
//
// The block samples rst_n, setpoint and feedback on each rising edge and
// drives control_signal with the controller's answer. While rst_n is low the
// controller is reset and the output is held at zero.
package dut
