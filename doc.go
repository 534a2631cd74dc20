/*
Package arbee defines the interfaces used throughout the escrow ledger, such
as storage, transactions, handlers and notifications. It also contains helpers
to work with context and caller identity.

Extensions living under x/ are built on top of these interfaces. The app
package glues them together into a tendermint ABCI application.
*/
package arbee
