// Package signalctl implements a traffic signal control protocol server in
// the style of GA/T 1049.2: a message envelope with sequenced, addressed
// operations carried over NATS, a dispatcher routing requests to domain
// handlers, and a push broker fanning controller events out to subscribed
// management centers.
//
// The repository is organized around the protocol surface:
//
//   - protocol and protocol/codec define the envelope, addressing, sequence
//     generation and the XML/JSON wire codecs with a payload type registry.
//   - dispatch routes decoded operations to registered handlers with
//     timeouts, panic recovery and per-operation metrics.
//   - handler assembles the operation chain: login, query, control, lock,
//     retransmission, subscription and push handling.
//   - session, control, query and retrans implement the domain semantics
//     behind those handlers against the service interfaces in service.
//   - gateway bridges NATS frames to the dispatcher and serves the monitor
//     HTTP listener; natsbus wraps the NATS connection lifecycle.
//   - model holds the object vocabulary: cross parameters, plans, lamp
//     groups, runtime state and command payloads.
//
// The binary lives in cmd/signalctl.
package signalctl
