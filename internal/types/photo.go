package types

// PhotoInfo identifies a stored binary object and its retrieval
// location. Filename is the object key inside the bucket.
type PhotoInfo struct {
	URL      string `gorm:"column:url" json:"url"`
	Filename string `gorm:"column:filename" json:"filename"`
}

// DefaultPhotoFilename is the reserved placeholder every new account
// starts with. It is shared, so photo replacement must never delete it.
const DefaultPhotoFilename = "default_avatar.png"

// DefaultPhotoURL is the public location of the placeholder object.
const DefaultPhotoURL = "https://storage.googleapis.com/contacthub-public/default_avatar.png"

func DefaultPhoto() PhotoInfo {
	return PhotoInfo{URL: DefaultPhotoURL, Filename: DefaultPhotoFilename}
}
