package domain

import "encoding/base64"

// Image is an encoded input image ready to attach to a vision request.
type Image struct {
	MIMEType string
	Data     []byte
}

// DataURL renders the image as a base64 data URL.
func (i Image) DataURL() string {
	mime := i.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(i.Data)
}
