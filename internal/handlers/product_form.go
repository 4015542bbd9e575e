package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// MultipartProductInput carries the parsed form fields. The Set flags tell
// create/update apart: an absent field must not clobber an existing value.
type MultipartProductInput struct {
	Name           string
	NameSet        bool
	Price          float64
	PriceSet       bool
	Category       string
	CategorySet    bool
	SubCategory    string
	SubCategorySet bool
	Quantity       int
	QuantitySet    bool
	Weight         string
	WeightSet      bool
	Description    string
	DescriptionSet bool
	Bestseller     bool
	BestsellerSet  bool
	Images         []*multipart.FileHeader
}

// imageFieldNames matches the admin form, which submits up to four files as
// image1..image4.
var imageFieldNames = []string{"image1", "image2", "image3", "image4"}

func parseMultipartProductRequest(c *gin.Context) (MultipartProductInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return MultipartProductInput{}, err
	}

	input := MultipartProductInput{}

	if value, ok := c.GetPostForm("name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}

	if value, ok := c.GetPostForm("category"); ok {
		input.Category = strings.TrimSpace(value)
		input.CategorySet = true
	}

	if value, ok := c.GetPostForm("subCategory"); ok {
		input.SubCategory = strings.TrimSpace(value)
		input.SubCategorySet = true
	}

	if value, ok := c.GetPostForm("weight"); ok {
		input.Weight = strings.TrimSpace(value)
		input.WeightSet = true
	}

	if value, ok := c.GetPostForm("description"); ok {
		input.Description = strings.TrimSpace(value)
		input.DescriptionSet = true
	}

	if value, ok := c.GetPostForm("price"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Price = parsed
		input.PriceSet = true
	}

	if value, ok := c.GetPostForm("quantity"); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Quantity = parsed
		input.QuantitySet = true
	}

	if value, ok := c.GetPostForm("bestseller"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return MultipartProductInput{}, err
		}
		input.Bestseller = parsed
		input.BestsellerSet = true
	}

	for _, field := range imageFieldNames {
		file, err := c.FormFile(field)
		if err == nil {
			input.Images = append(input.Images, file)
			continue
		}
		if !errors.Is(err, http.ErrMissingFile) &&
			!strings.Contains(err.Error(), "no such file") {
			return MultipartProductInput{}, err
		}
	}

	return input, nil
}

func parseBoolValue(value string) (bool, error) {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "on" {
		return true, nil
	}
	return strconv.ParseBool(value)
}

func respondMultipartError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
}
