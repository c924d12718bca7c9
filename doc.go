// Package accounts provides JWT backed user accounts (registration, login,
// self service profile management) plus the per-user costing resources that
// ride on top of them.
//
// Auth core:
//   - Passwords are bcrypt hashed with a fixed cost; anything over the bcrypt
//     72 byte limit is rejected before hashing rather than truncated.
//   - TokenService issues and verifies HS256 access tokens whose lifetime is
//     configured in minutes. Expired and malformed tokens fail with distinct
//     errors so middleware can tell them apart.
//   - IdentityResolver turns an Authorization header into the live account it
//     belongs to. Tokens whose subject was deleted after issuance resolve to
//     nothing.
//
// Costing resources:
//   - Materials, Products, and their entry/snapshot children are scoped to
//     the owning user on every query; rows owned by someone else behave as if
//     they do not exist.
//   - BulkImportHandler ingests materials and grouped product lines in one
//     transaction, pricing products off the imported materials and recording
//     row errors for unknown references.
package accounts
