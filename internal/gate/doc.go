// Package gate decides whether a caller may upload readings or process
// them. Decisions come from an Authority, either a static in-process token
// list or a remote HTTP endpoint. The gate fails closed: any authority
// error denies the request.
package gate
