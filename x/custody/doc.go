/*
Package custody keeps per address asset balances and moves units between
them. It is the asset transfer collaborator of the invoice extension: every
invoice holds its custodied funds in a custody wallet of its own.
*/
package custody
