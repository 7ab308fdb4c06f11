package apperr

// Error codes returned in the response envelope.
const (
	CodeMissingBearer    = "auth/missing-bearer"
	CodeInvalidToken     = "auth/invalid-token"
	CodeInvalidName      = "invalid/name"
	CodeInvalidRequest   = "invalid-request"
	CodeInvalidRole      = "invalid-role"
	CodeInvalidStatus    = "invalid-status"
	CodeInvalidEmail     = "invalid-email"
	CodeInvalidTitle     = "invalid-title"
	CodeInvalidContent   = "invalid-content"
	CodeMissingFields    = "missing-required-fields"
	CodeNoUpdates        = "no-updates"
	CodeInvalidChange    = "invalid-transition"
	CodeMissingTenantID  = "missing-tenant-id"
	CodeTenantAssigned   = "tenant/already-assigned"
	CodeTenantNotFound   = "tenant-not-found"
	CodeAccessDenied     = "tenant-access-denied"
	CodeInactiveMember   = "inactive-member"
	CodeAdminRequired    = "admin-required"
	CodeInviteNotFound   = "invitation-not-found"
	CodeMemberNotFound   = "member-not-found"
	CodeMemberExists     = "member-already-exists"
	CodeAlreadyMember    = "already-member"
	CodeLastAdmin        = "last-admin"
	CodeDraftNotFound    = "draft-not-found"
	CodeProfileNotFound  = "profile-not-found"
	CodeTemplateNotFound = "template-not-found"
	CodeInvalidTone      = "invalid-tone"
	CodeInvalidSchedule  = "invalid-schedule"
	CodeNotFound         = "not-found"
	CodeRateLimited      = "rate-limited"
	CodeUpstreamTimeout  = "upstream-timeout"
	CodeUpstreamFailed   = "upstream-error"
	CodeInternal         = "internal-error"
)
