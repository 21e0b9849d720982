package storage

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Cloudinary media host, configured via CLOUDINARY_CLOUD_NAME,
// CLOUDINARY_API_KEY, CLOUDINARY_API_SECRET and CLOUDINARY_FOLDER.

// MediaUpload is the result of a successful upload.
type MediaUpload struct {
	URL      string `json:"url"`
	PublicID string `json:"publicID"`
}

func cloudinaryConfig() (cloudName, apiKey, apiSecret, folder string, ok bool) {
	cloudName = os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey = os.Getenv("CLOUDINARY_API_KEY")
	apiSecret = os.Getenv("CLOUDINARY_API_SECRET")
	folder = os.Getenv("CLOUDINARY_FOLDER")
	ok = cloudName != "" && apiKey != "" && apiSecret != ""
	return
}

// UploadBase64Image uploads a data-URL or raw base64 image and returns
// its public URL and identifier.
func UploadBase64Image(base64ImageSrc string, publicID string) (*MediaUpload, error) {
	if base64ImageSrc == "" {
		return nil, fmt.Errorf("empty image payload")
	}

	payload := base64ImageSrc
	if i := strings.Index(base64ImageSrc, ","); i != -1 {
		payload = base64ImageSrc[i+1:]
	}

	cloudName, apiKey, apiSecret, folder, ok := cloudinaryConfig()
	if !ok {
		return nil, fmt.Errorf("cloudinary is not configured")
	}

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	form := url.Values{}
	form.Add("file", "data:image/jpeg;base64,"+payload)
	form.Add("api_key", apiKey)
	if finalPublicID != "" {
		form.Add("public_id", finalPublicID)
	}

	// Signed upload: Cloudinary requires a SHA1 over the sorted params
	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	form.Add("timestamp", timestamp)
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/upload"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		log.Printf("cloudinary upload failed: status %d body %s", res.StatusCode, string(body))
		return nil, fmt.Errorf("cloudinary upload failed with status %d", res.StatusCode)
	}

	var cloudRes struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
		PublicID  string `json:"public_id"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &cloudRes); err != nil {
		return nil, err
	}
	if cloudRes.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary: %s", cloudRes.Error.Message)
	}

	uploadedURL := cloudRes.SecureURL
	if uploadedURL == "" {
		uploadedURL = cloudRes.URL
	}
	if uploadedURL == "" {
		return nil, fmt.Errorf("cloudinary returned no URL")
	}

	return &MediaUpload{URL: uploadedURL, PublicID: cloudRes.PublicID}, nil
}

// DeleteImage removes an uploaded image by its Cloudinary URL.
func DeleteImage(imageURL string) error {
	if !strings.Contains(imageURL, "res.cloudinary.com") {
		return fmt.Errorf("not a cloudinary URL: %s", imageURL)
	}

	parts := strings.Split(imageURL, "/")
	lastPart := parts[len(parts)-1]
	publicID := strings.Split(lastPart, ".")[0]

	cloudName, apiKey, apiSecret, folder, ok := cloudinaryConfig()
	if !ok {
		return fmt.Errorf("cloudinary is not configured")
	}

	finalPublicID := publicID
	if folder != "" {
		finalPublicID = folder + "/" + publicID
	}

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signatureString := fmt.Sprintf("public_id=%s&timestamp=%s%s", finalPublicID, timestamp, apiSecret)

	form := url.Values{}
	form.Add("public_id", finalPublicID)
	form.Add("api_key", apiKey)
	form.Add("timestamp", timestamp)
	form.Add("signature", fmt.Sprintf("%x", sha1.Sum([]byte(signatureString))))

	endpoint := "https://api.cloudinary.com/v1_1/" + cloudName + "/image/destroy"
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("cloudinary deletion failed with status %d", res.StatusCode)
	}
	return nil
}
