package errors

// Error code constants
// Format: CATEGORY_SPECIFIC_DETAIL
// Clients map these codes to localized messages.

const (
	// ==================== Authentication (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid = "AUTH_TOKEN_INVALID"

	// ==================== Authorization (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== Validation (VALIDATION_) ====================
	ValidationInvalidInput  = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID     = "VALIDATION_INVALID_ID"
	ValidationInvalidFormat = "VALIDATION_INVALID_FORMAT"
	ValidationInvalidRange  = "VALIDATION_INVALID_RANGE"
	ValidationTooShort      = "VALIDATION_TOO_SHORT"
	ValidationRequired      = "VALIDATION_REQUIRED"

	// ==================== Resources (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== Company profile (COMPANY_) ====================
	CompanyNotFound      = "COMPANY_NOT_FOUND"
	CompanyNameImmutable = "COMPANY_NAME_IMMUTABLE"
	CompanyInvalidField  = "COMPANY_INVALID_FIELD"

	// ==================== Slug (SLUG_) ====================
	SlugTaken   = "SLUG_TAKEN"
	SlugInvalid = "SLUG_INVALID"
	SlugUnknown = "SLUG_UNKNOWN"

	// ==================== Wizard (WIZARD_) ====================
	WizardSessionNotFound = "WIZARD_SESSION_NOT_FOUND"
	WizardStepMismatch    = "WIZARD_STEP_MISMATCH"
	WizardCannotGoBack    = "WIZARD_CANNOT_GO_BACK"
	WizardNotReady        = "WIZARD_NOT_READY"

	// ==================== Links and products (COLLECTION_) ====================
	CollectionItemNotFound      = "COLLECTION_ITEM_NOT_FOUND"
	CollectionConfirmRequired   = "COLLECTION_CONFIRM_REQUIRED"
	CollectionDuplicatePlatform = "COLLECTION_DUPLICATE_PLATFORM"
	CollectionInvalidIndex      = "COLLECTION_INVALID_INDEX"
	CollectionUnknownPlatform   = "COLLECTION_UNKNOWN_PLATFORM"

	// ==================== Media (UPLOAD_ / MEDIA_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadFailed          = "UPLOAD_FAILED"
	MediaSlotFull         = "MEDIA_SLOT_FULL"
	MediaInvalidSlot      = "MEDIA_INVALID_SLOT"

	// ==================== Reviews (REVIEW_) ====================
	ReviewNotFound          = "REVIEW_NOT_FOUND"
	ReviewInvalidRating     = "REVIEW_INVALID_RATING"
	ReviewApprovedImmutable = "REVIEW_APPROVED_IMMUTABLE"

	// ==================== Blog (BLOG_) ====================
	BlogNotFound = "BLOG_NOT_FOUND"

	// ==================== Submission (SUBMISSION_) ====================
	SubmissionFailed = "SUBMISSION_FAILED"

	// ==================== Internal (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
