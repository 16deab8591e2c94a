package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MultipartProductInput mirrors the multipart fields of the admin product
// form. Set flags make partial updates possible: an absent field is left
// untouched, an empty one clears the value.
type MultipartProductInput struct {
	Name        string
	NameSet     bool
	Brand       string
	BrandSet    bool
	Categories  []string
	CategSet    bool
	Price       float64
	PriceSet    bool
	Stock       int
	StockSet    bool
	Size        string
	SizeSet     bool
	Notes       []string
	NotesSet    bool
	Rating      float64
	RatingSet   bool
	Description string
	DescSet     bool
	ImagePath   string
	ImageSet    bool
	IsActive    bool
	IsActiveSet bool
	Featured    bool
	FeaturedSet bool
}

func parseMultipartProductRequest(c *gin.Context) (MultipartProductInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		log.Println("PARSE ERROR:", err)
		return MultipartProductInput{}, err
	}

	input := MultipartProductInput{}

	if value, ok := lastPostForm(c, "name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}

	if value, ok := lastPostForm(c, "brand"); ok {
		input.Brand = strings.TrimSpace(value)
		input.BrandSet = true
	}

	if value, ok := lastPostForm(c, "size"); ok {
		input.Size = strings.TrimSpace(value)
		input.SizeSet = true
	}

	if value, ok := lastPostForm(c, "description"); ok {
		input.Description = strings.TrimSpace(value)
		input.DescSet = true
	}

	if values, ok := c.GetPostFormArray("category"); ok {
		input.Categories = values
		input.CategSet = true
	}

	if values, ok := c.GetPostFormArray("notes"); ok {
		notes := make([]string, 0, len(values))
		for _, v := range values {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				notes = append(notes, trimmed)
			}
		}
		input.Notes = notes
		input.NotesSet = true
	}

	if value, ok := lastPostForm(c, "price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Price = parsed
		input.PriceSet = true
	}

	if value, ok := lastPostForm(c, "rating"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Rating = parsed
		input.RatingSet = true
	}

	if value, ok := lastPostForm(c, "stockQuantity"); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Stock = parsed
		input.StockSet = true
	}

	if value, ok := lastPostForm(c, "isActive"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.IsActive = parsed
		input.IsActiveSet = true
	}

	if value, ok := lastPostForm(c, "featured"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Featured = parsed
		input.FeaturedSet = true
	}

	if file, err := c.FormFile("image"); err == nil && file != nil {
		relPath, err := saveUploadedImage(c, file, productUploadDir)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.ImagePath = relPath
		input.ImageSet = true
	}

	return input, nil
}

// lastPostForm returns the last submitted value for a repeated form field.
// Some admin clients submit a hidden default followed by the real value.
func lastPostForm(c *gin.Context, key string) (string, bool) {
	values, ok := c.GetPostFormArray(key)
	if !ok || len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

func parseBoolValue(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "on":
		return true, nil
	case "false", "0", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean value: %s", value)
}

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// saveUploadedImage writes the file under the public uploads tree with a
// generated name and returns the relative path stored on the document.
func saveUploadedImage(c *gin.Context, file *multipart.FileHeader, subdir string) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExtensions[ext] {
		return "", errors.New("unsupported image type")
	}

	name := uuid.NewString() + ext
	relPath := subdir + "/" + name

	targetDir := filepath.Join(publicRootDir, filepath.FromSlash(subdir))
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return "", err
	}

	if err := c.SaveUploadedFile(file, filepath.Join(targetDir, name)); err != nil {
		return "", err
	}

	return relPath, nil
}
