/*
Package amqp publishes ledger notifications to a RabbitMQ topic exchange.

Every notification is encoded as JSON and published with the routing key
"<prefix>.<kind>", for example "invoice.funded". Publishing happens on a
background goroutine so a slow or unavailable broker never blocks the
transaction that produced the notification. A failed publish is retried with
exponential backoff, reconnecting to the broker in between, and dropped
when the backoff gives up.
*/
package amqp
