// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"
	KeyInfo    = "info"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserNotFound       = "auth.user_not_found"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"
	KeyAuthPasswordReset      = "auth.password_reset"

	// User Management
	KeyUserProfileUpdated = "user.profile_updated"
	KeyUserNotFound       = "user.not_found"
	KeyUserSuspended      = "user.suspended"

	// Categories
	KeyCategoryCreated  = "category.created"
	KeyCategoryUpdated  = "category.updated"
	KeyCategoryDeleted  = "category.deleted"
	KeyCategoryNotFound = "category.not_found"

	// Products
	KeyProductCreated    = "product.created"
	KeyProductUpdated    = "product.updated"
	KeyProductDeleted    = "product.deleted"
	KeyProductNotFound   = "product.not_found"
	KeyProductOutOfStock = "product.out_of_stock"

	// Addresses
	KeyAddressCreated    = "address.created"
	KeyAddressUpdated    = "address.updated"
	KeyAddressDeleted    = "address.deleted"
	KeyAddressNotFound   = "address.not_found"
	KeyAddressDefaultSet = "address.default_set"

	// Cart
	KeyCartItemAdded    = "cart.item_added"
	KeyCartItemUpdated  = "cart.item_updated"
	KeyCartItemRemoved  = "cart.item_removed"
	KeyCartItemNotFound = "cart.item_not_found"
	KeyCartCleared      = "cart.cleared"
	KeyCartEmpty        = "cart.empty"

	// Orders
	KeyOrderCreated           = "order.created"
	KeyOrderCancelled         = "order.cancelled"
	KeyOrderNotFound          = "order.not_found"
	KeyOrderStatusUpdated     = "order.status_updated"
	KeyOrderInvalidStatus     = "order.invalid_status"
	KeyOrderInvalidTransition = "order.invalid_transition"

	// Reviews
	KeyReviewCreated   = "review.created"
	KeyReviewUpdated   = "review.updated"
	KeyReviewDeleted   = "review.deleted"
	KeyReviewNotFound  = "review.not_found"
	KeyReviewDuplicate = "review.duplicate"

	// Admin
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminUserSuspended   = "admin.user_suspended"
	KeyAdminUserUnsuspended = "admin.user_unsuspended"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationTooShort = "validation.too_short"
	KeyValidationTooLong  = "validation.too_long"
	KeyValidationEmail    = "validation.invalid_email"
	KeyValidationPassword = "validation.invalid_password"

	// Search
	KeySearchNoResults    = "search.no_results"
	KeySearchResultsFound = "search.results_found"

	// Notifications
	KeyNotificationSent   = "notification.sent"
	KeyNotificationFailed = "notification.failed"
)
