// Package services defines the [AssetService] interface for the reupload pipeline and implements it against the Roblox HTTP APIs.
//
// # AssetService Interface
//
// The pipeline depends on four platform operations — Verify, Fetch, FindExisting, Publish —
// so the orchestrator and server layers stay testable against doubles.
//
// # Credentials
//
// [Credentials] holds the active auth method and secret and derives outbound headers:
// a fixed client identifier plus exactly one of a .ROBLOSECURITY cookie or an
// Open Cloud x-api-key header. An empty secret fails closed — requests go out with
// only the client identifier and are rejected upstream.
//
// The account id is filled in once by [RobloxService.Verify] under cookie auth and
// is required input for creations inventory searches. API key auth never carries an
// account id because the key-auth surface doesn't expose one.
//
// # Error Handling
//
// Services use typed errors from the shared package, wrapped with context:
//   - [shared.ErrInvalidCredentials] : verification rejected the secret
//   - [shared.ErrAPIRequest] : transport-level failure
//   - [shared.ErrDownloadFailed] : both delivery endpoints rejected a fetch (see [FetchError])
//   - [shared.ErrUploadRejected] : publish endpoint returned an error status (see [PublishError])
//   - [shared.ErrNoAssetID] : publish succeeded but returned no parsable id
//
// # Duplicate Detection
//
// [RobloxService.FindExisting] pages the creations listing looking for an asset with
// a matching name whose description starts with [ReuploadMarker]. The marker is a
// convention rather than a guaranteed-unique key; keeping the search behind the
// FindExisting contract means a stronger idempotency key can replace it without
// touching the orchestrator.
package services
