package bootstrap

// =============================================================================
// Store Initialization
// =============================================================================

// Dependency names reported by /readyz
const (
	ReadinessRemote = "remote"
	ReadinessLocal  = "local"
)

const (
	LogMsgRemoteSelected = "Remote store selected"
	LogMsgLocalSelected  = "Local cache selected"

	ErrMsgUnknownRemoteBackend = "unknown remote backend"
	ErrMsgUnknownLocalBackend  = "unknown local backend"
	ErrMsgFailedMigrate        = "failed to migrate remote store"
	ErrMsgFailedConnectRemote  = "failed to connect remote store"
	ErrMsgFailedOpenLocal      = "failed to open local cache"
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingEcoQuest    = "Starting EcoQuest"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
)

// =============================================================================
// Catalog
// =============================================================================

const (
	LogMsgCatalogLoaded     = "Catalog loaded"
	ErrMsgFailedLoadCatalog = "failed to load catalog"
)

// =============================================================================
// Event Handler Configuration
// =============================================================================

const (
	LogMsgMetricsCollectorRegistered = "Metrics collector registered"
	LogMsgTitleHandlerRegistered     = "Title award handler registered"
	LogMsgSSESubscriberRegistered    = "SSE subscriber registered"
	LogMsgStreamMetricsFailed        = "Failed to register stream metrics"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgWorkerShutdownFailed = "Midnight worker shutdown failed"
	LogMsgStoreCloseFailed     = "Store close failed"
)
