// Package accounts implements a user-account lifecycle (signup, email
// activation, password reset, profile edits, deletion) on top of narrow
// collaborator interfaces for storage, notifications, and sessions.
//
// Account lifecycle:
//   - Accounts carry a role set persisted via Bun. A persisted account is
//     either active (ROLE_USER) or pending activation (ROLE_NOTACTIVE_USER),
//     never both; ROLE_UPDATABLE_USERNAME gates login-name edits and is
//     revoked after the first change.
//   - Flows are command handlers (SignupHandler, EditProfileHandler,
//     ActivateAccountHandler, RequestPasswordResetHandler,
//     RedeemPasswordResetHandler, DeleteAccountHandler). Each runs its
//     mutation inside a repository transaction and reports through the
//     message's OnResponse callback.
//
// Credentials:
//   - Passwords live transiently on the Account until CredentialManager
//     commits them to a salted hash. The default MessageDigestHasher keeps
//     byte compatibility with the legacy SHA-512 encoder; BcryptHasher is
//     available for new deployments.
//
// Sessions:
//   - SessionAuthority issues and invalidates explicit Session values; the
//     bundled TokenSessionAuthority signs HS256 JWTs and tracks revoked
//     token ids. Flows never fail hard on session establishment: they fall
//     back to invalidating the current session and flagging a re-login.
package accounts
