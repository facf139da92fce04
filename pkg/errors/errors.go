package errors

// ErrorCode represents a specific error code in the system.
type ErrorCode string

const (
	// GeneralInternalServerError represents a generic internal server error.
	GeneralInternalServerError ErrorCode = "general_internal_server_error"
	// GeneralBadRequestError represents a generic bad request error.
	GeneralBadRequestError ErrorCode = "general_bad_request_error"
	// GeneralNotFoundError represents a generic not found error.
	GeneralNotFoundError ErrorCode = "general_not_found_error"

	// ErrDuplicateOrderID represents an add event referencing an order id that is already live.
	ErrDuplicateOrderID ErrorCode = "duplicate_order_id"
	// ErrUnknownOrderID represents a modify/delete event referencing an order id that is not live.
	ErrUnknownOrderID ErrorCode = "unknown_order_id"
	// ErrInvalidEventPayload represents an event with an unrecognized action or malformed fields.
	ErrInvalidEventPayload ErrorCode = "invalid_event_payload"
	// ErrCrossedBook represents a consistency check failure where the best bid meets or
	// exceeds the best ask after an event has been fully processed.
	ErrCrossedBook ErrorCode = "crossed_book_invariant_violation"

	// EventDecodeError represents a failure to decode an incoming event payload.
	EventDecodeError ErrorCode = "event_decode_error"
	// SnapshotPublishError represents a failure to publish a snapshot row.
	SnapshotPublishError ErrorCode = "snapshot_publish_error"
	// SnapshotStoreError represents a failure to persist snapshot rows.
	SnapshotStoreError ErrorCode = "snapshot_store_error"

	// QuestDBConfigError represents an invalid QuestDB configuration.
	QuestDBConfigError ErrorCode = "questdb_config_error"
	// QuestDBConnectionError represents a failure to connect to QuestDB.
	QuestDBConnectionError ErrorCode = "questdb_connection_error"
)
