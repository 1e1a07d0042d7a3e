// Package serverrun wires configuration, storage, services, and the HTTP
// server into a running process. It is the composition root shared by the
// CLI entrypoint and integration harnesses.
package serverrun
