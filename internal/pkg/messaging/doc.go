// Package messaging is a small broker-agnostic publish/consume layer.
//
// Drivers: in-process memory, NATS, Kafka, NSQ and Google Pub/Sub. All of
// them deliver a Message to a Handler; a nil error acknowledges the message
// and a non-nil error asks the broker to redeliver when it can.
package messaging
