// Package common contains shared constants and sentinel errors used across
// registo components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// EntriesCollection is the default document collection holding journal entries.
const EntriesCollection = "entries"

// DateTimeField is the document field entries are ordered by.
const DateTimeField = "dataHora"
