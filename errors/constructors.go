package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *KakapoError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *KakapoError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// FetchFailed creates a catalog fetch failure error
func FetchFailed(url string, err error) *KakapoError {
	return Wrap(err, ErrCodeFetchFailed, fmt.Sprintf("failed to fetch sound catalog from %s", url)).
		WithDetail("url", url)
}

// InitPending is returned when a catalog init is requested while another one is in flight
func InitPending() *KakapoError {
	return New(ErrCodeInitPending, "a sound catalog init is already in progress")
}

// SoundNotFound creates a missing sound error
func SoundNotFound(id string) *KakapoError {
	return New(ErrCodeSoundNotFound, fmt.Sprintf("sound '%s' not found", id)).
		WithDetail("id", id)
}

// StorageFailed wraps a storage backend failure
func StorageFailed(driver, op string, err error) *KakapoError {
	return Wrap(err, ErrCodeStorageFailed, fmt.Sprintf("%s storage %s failed", driver, op)).
		WithDetail("driver", driver).
		WithDetail("op", op)
}

// StorageUnsupported reports an unknown storage driver name
func StorageUnsupported(driver string) *KakapoError {
	return New(ErrCodeStorageUnsupported, fmt.Sprintf("unsupported storage driver '%s'", driver)).
		WithDetail("driver", driver)
}

// DaemonUnavailable reports that the kakapo daemon could not be reached
func DaemonUnavailable(socket string, err error) *KakapoError {
	return Wrap(err, ErrCodeDaemonUnavailable, "kakapo daemon is not reachable").
		WithDetail("socket", socket)
}
