/*
Package invoice implements escrowed payment requests with optional dispute
arbitration.

A payee creates an invoice against a payer, optionally naming an arbitrator
and the fee the arbitrator earns for settling a dispute. The payer deposits
funds into the custody account of the invoice. The funds are then released
to the payee, refunded to the payer or split by the arbitrator's decision.

	        create
	          |
	          v
	   +---> New ---------- cancel ---------> Cancelled
	   |      |
	deposit   | deposit (balance >= requested)
	   |      v
	   +--- Pending ------- release --------> ResolvedPaid
	          |                                  ^
	          | dispute                          | resolve(Paid)
	          v                                  |
	       Disputed ----------------------------+
	          |
	          +------------ resolve(Refunded) -> ResolvedRefunded

Every invoice is stored under a sequential id starting at zero and is never
deleted. Each applied state change produces a single Notification.
*/
package invoice
