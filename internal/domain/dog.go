package domain

// Dog sizes.
const (
	DogSizeSmall  = "small"
	DogSizeMedium = "medium"
	DogSizeLarge  = "large"
)

// IsValidDogSize checks whether size is one of the known sizes.
func IsValidDogSize(size string) bool {
	switch size {
	case DogSizeSmall, DogSizeMedium, DogSizeLarge:
		return true
	}
	return false
}

// Dog belongs to exactly one owner.
type Dog struct {
	ID      int64  `json:"dog_id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	Size    string `json:"size"`
}

// DogListing is a dog joined with its owner's username.
type DogListing struct {
	DogID         int64  `json:"dog_id"`
	DogName       string `json:"dog_name"`
	Size          string `json:"size"`
	OwnerID       int64  `json:"owner_id"`
	OwnerUsername string `json:"owner_username"`
}
