package handlers

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"gardora-backend/internal/media"
	"gardora-backend/internal/middleware"
	"gardora-backend/internal/models"
)

// MultipartGardenerInput mirrors the gardener onboarding form. The face
// image comes as "faceImage" (older forms sent "image"); work images come
// as repeated "workImages" fields.
type MultipartGardenerInput struct {
	Name              string
	NameSet           bool
	Email             string
	EmailSet          bool
	Phone             string
	PhoneSet          bool
	Location          string
	LocationSet       bool
	Experience        string
	ExperienceSet     bool
	HourlyRate        float64
	HourlyRateSet     bool
	MinimumHours      int
	MinimumHoursSet   bool
	Certifications    models.StringList
	CertificationsSet bool
	Languages         models.StringList
	LanguagesSet      bool
	Bio               string
	BioSet            bool
	Rating            float64
	RatingSet         bool
	IsAvailable       bool
	IsAvailableSet    bool
	FaceImage         *multipart.FileHeader
	WorkImages        []*multipart.FileHeader
}

func parseMultipartGardenerRequest(c *gin.Context) (MultipartGardenerInput, error) {
	if err := c.Request.ParseMultipartForm(32 << 20); err != nil {
		return MultipartGardenerInput{}, err
	}

	input := MultipartGardenerInput{}

	if value, ok := c.GetPostForm("name"); ok {
		input.Name = strings.TrimSpace(value)
		input.NameSet = true
	}
	if value, ok := c.GetPostForm("email"); ok {
		input.Email = strings.ToLower(strings.TrimSpace(value))
		input.EmailSet = true
	}
	if value, ok := c.GetPostForm("phone"); ok {
		input.Phone = strings.TrimSpace(value)
		input.PhoneSet = true
	}
	if value, ok := c.GetPostForm("location"); ok {
		input.Location = strings.TrimSpace(value)
		input.LocationSet = true
	}
	if value, ok := c.GetPostForm("experience"); ok {
		input.Experience = strings.TrimSpace(value)
		input.ExperienceSet = true
	}
	if value, ok := c.GetPostForm("bio"); ok {
		input.Bio = strings.TrimSpace(value)
		input.BioSet = true
	}

	if value, ok := c.GetPostForm("hourlyRate"); ok {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return MultipartGardenerInput{}, err
		}
		input.HourlyRate = parsed
		input.HourlyRateSet = true
	}

	if value, ok := c.GetPostForm("minimumHours"); ok {
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return MultipartGardenerInput{}, err
		}
		input.MinimumHours = parsed
		input.MinimumHoursSet = true
	}

	if value, ok := c.GetPostForm("rating"); ok && strings.TrimSpace(value) != "" {
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return MultipartGardenerInput{}, err
		}
		input.Rating = parsed
		input.RatingSet = true
	}

	if value, ok := c.GetPostForm("isAvailable"); ok {
		parsed, err := parseBoolValue(value)
		if err != nil {
			return MultipartGardenerInput{}, err
		}
		input.IsAvailable = parsed
		input.IsAvailableSet = true
	}

	// The admin form submits these as one comma-separated string.
	if value, ok := c.GetPostForm("certifications"); ok {
		input.Certifications = models.SplitCommaList(value)
		input.CertificationsSet = true
	}
	if value, ok := c.GetPostForm("languages"); ok {
		input.Languages = models.SplitCommaList(value)
		input.LanguagesSet = true
	}

	for _, field := range []string{"faceImage", "image"} {
		file, err := c.FormFile(field)
		if err == nil {
			input.FaceImage = file
			break
		}
		if !errors.Is(err, http.ErrMissingFile) &&
			!strings.Contains(err.Error(), "no such file") {
			return MultipartGardenerInput{}, err
		}
	}

	if form := c.Request.MultipartForm; form != nil {
		for name, files := range form.File {
			if name == "workImages" || strings.HasPrefix(name, "workImages[") {
				input.WorkImages = append(input.WorkImages, files...)
			}
		}
	}

	return input, nil
}

/* =======================
   DIRECTORY (ADMIN)
======================= */

// GET /api/gardener
func GetGardeners(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/gardener"
		defer handlePanic(c, route)

		filter := bson.M{}
		if available := strings.TrimSpace(c.Query("isAvailable")); available != "" {
			filter["isAvailable"] = strings.EqualFold(available, "true")
		}
		if location := strings.TrimSpace(c.Query("location")); location != "" {
			filter["location"] = bson.M{"$regex": location, "$options": "i"}
		}

		opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		cursor, err := db.Collection("gardeners").Find(ctx, filter, opts)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		gardeners := make([]models.GardenerProfile, 0)
		if err := cursor.All(ctx, &gardeners); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "decode error")
			return
		}

		respondOK(c, gin.H{"gardeners": gardeners})
	}
}

// GET /api/gardener/:id
func GetGardener(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/gardener/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var gardener models.GardenerProfile
		err = db.Collection("gardeners").FindOne(ctx, bson.M{"_id": id}).Decode(&gardener)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "gardener not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"gardener": gardener})
	}
}

// POST /api/gardener/add (admin, multipart)
func AddGardener(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/gardener/add"

		input, err := parseMultipartGardenerRequest(c)
		if err != nil {
			log.Println("AddGardener multipart error:", err)
			respondMultipartError(c, err)
			return
		}

		if !input.EmailSet || input.Email == "" {
			respondWithError(c, http.StatusBadRequest, route, "email required")
			return
		}
		if !input.PhoneSet || input.Phone == "" {
			respondWithError(c, http.StatusBadRequest, route, "phone required")
			return
		}
		if !input.LocationSet || input.Location == "" {
			respondWithError(c, http.StatusBadRequest, route, "location required")
			return
		}
		if !input.ExperienceSet || input.Experience == "" {
			respondWithError(c, http.StatusBadRequest, route, "experience required")
			return
		}
		if !input.BioSet || input.Bio == "" {
			respondWithError(c, http.StatusBadRequest, route, "bio required")
			return
		}
		if !input.HourlyRateSet || input.HourlyRate <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "invalid hourlyRate")
			return
		}
		if !input.MinimumHoursSet || input.MinimumHours <= 0 {
			respondWithError(c, http.StatusBadRequest, route, "invalid minimumHours")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		count, err := db.Collection("gardeners").CountDocuments(ctx, bson.M{"email": input.Email})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if count > 0 {
			respondWithError(c, http.StatusConflict, route, "gardener email already registered")
			return
		}

		now := time.Now()
		gardener := models.GardenerProfile{
			Name:           input.Name,
			Email:          input.Email,
			Phone:          input.Phone,
			Location:       input.Location,
			Experience:     input.Experience,
			HourlyRate:     input.HourlyRate,
			MinimumHours:   input.MinimumHours,
			Certifications: input.Certifications,
			Languages:      input.Languages,
			Bio:            input.Bio,
			WorkImages:     []string{},
			IsAvailable:    true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if input.RatingSet {
			gardener.Rating = input.Rating
		}
		if input.IsAvailableSet {
			gardener.IsAvailable = input.IsAvailable
		}

		if input.FaceImage != nil {
			url, err := uploader.Upload(c.Request.Context(), input.FaceImage)
			if err != nil {
				log.Println("AddGardener face image upload failed:", err)
				respondWithError(c, http.StatusBadGateway, route, "image upload failed")
				return
			}
			gardener.FaceImage = url
		}
		for _, file := range input.WorkImages {
			url, err := uploader.Upload(c.Request.Context(), file)
			if err != nil {
				log.Println("AddGardener work image upload failed:", err)
				respondWithError(c, http.StatusBadGateway, route, "image upload failed")
				return
			}
			gardener.WorkImages = append(gardener.WorkImages, url)
		}

		res, err := db.Collection("gardeners").InsertOne(ctx, gardener)
		if err != nil {
			log.Println("AddGardener insert error:", err)
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		gardener.ID = res.InsertedID.(primitive.ObjectID)
		respondCreated(c, gin.H{"gardener": gardener})
	}
}

func applyGardenerInput(ctx context.Context, uploader media.Uploader, input MultipartGardenerInput, updateSet bson.M) error {
	if input.NameSet {
		updateSet["name"] = input.Name
	}
	if input.EmailSet {
		if input.Email == "" {
			return errors.New("email required")
		}
		updateSet["email"] = input.Email
	}
	if input.PhoneSet {
		updateSet["phone"] = input.Phone
	}
	if input.LocationSet {
		updateSet["location"] = input.Location
	}
	if input.ExperienceSet {
		updateSet["experience"] = input.Experience
	}
	if input.HourlyRateSet {
		if input.HourlyRate <= 0 {
			return errors.New("invalid hourlyRate")
		}
		updateSet["hourlyRate"] = input.HourlyRate
	}
	if input.MinimumHoursSet {
		if input.MinimumHours <= 0 {
			return errors.New("invalid minimumHours")
		}
		updateSet["minimumHours"] = input.MinimumHours
	}
	if input.CertificationsSet {
		updateSet["certifications"] = input.Certifications
	}
	if input.LanguagesSet {
		updateSet["languages"] = input.Languages
	}
	if input.BioSet {
		updateSet["bio"] = input.Bio
	}
	if input.RatingSet {
		updateSet["rating"] = input.Rating
	}
	if input.IsAvailableSet {
		updateSet["isAvailable"] = input.IsAvailable
	}

	if input.FaceImage != nil {
		url, err := uploader.Upload(ctx, input.FaceImage)
		if err != nil {
			return err
		}
		updateSet["faceImage"] = url
	}
	if len(input.WorkImages) > 0 {
		urls := make([]string, 0, len(input.WorkImages))
		for _, file := range input.WorkImages {
			url, err := uploader.Upload(ctx, file)
			if err != nil {
				return err
			}
			urls = append(urls, url)
		}
		updateSet["workImages"] = urls
	}

	return nil
}

func updateGardenerByFilter(c *gin.Context, db *mongo.Database, uploader media.Uploader, route string, filter bson.M) {
	input, err := parseMultipartGardenerRequest(c)
	if err != nil {
		log.Printf("[%s] multipart error: %v", route, err)
		respondMultipartError(c, err)
		return
	}

	updateSet := bson.M{"updatedAt": time.Now()}
	if err := applyGardenerInput(c.Request.Context(), uploader, input, updateSet); err != nil {
		respondWithError(c, http.StatusBadRequest, route, err.Error())
		return
	}

	if len(updateSet) == 1 {
		respondWithError(c, http.StatusBadRequest, route, "no fields to update")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	// Resolve the document id up front; the update may change a field the
	// filter matched on (the profile fallback filters by email).
	var existing models.GardenerProfile
	err = db.Collection("gardeners").FindOne(ctx, filter).Decode(&existing)
	if err == mongo.ErrNoDocuments {
		respondWithError(c, http.StatusNotFound, route, "gardener not found")
		return
	}
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}

	result, err := db.Collection("gardeners").UpdateOne(ctx, bson.M{"_id": existing.ID}, bson.M{"$set": updateSet})
	if err != nil {
		log.Printf("[%s] update error: %v", route, err)
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}
	if result.MatchedCount == 0 {
		respondWithError(c, http.StatusNotFound, route, "gardener not found")
		return
	}

	var updated models.GardenerProfile
	if err := db.Collection("gardeners").FindOne(ctx, bson.M{"_id": existing.ID}).Decode(&updated); err != nil {
		respondWithError(c, http.StatusInternalServerError, route, "db error")
		return
	}

	respondOK(c, gin.H{"gardener": updated})
}

// PUT /api/gardener/:id (admin, multipart)
func UpdateGardener(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/gardener/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		updateGardenerByFilter(c, db, uploader, route, bson.M{"_id": id})
	}
}

// DELETE /api/gardener/:id (admin)
func DeleteGardener(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/gardener/:id"

		id, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var existing models.GardenerProfile
		err = db.Collection("gardeners").FindOne(ctx, bson.M{"_id": id}).Decode(&existing)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "gardener not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		result, err := db.Collection("gardeners").DeleteOne(ctx, bson.M{"_id": id})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if result.DeletedCount == 0 {
			respondWithError(c, http.StatusNotFound, route, "gardener not found")
			return
		}

		deleteStoredImages(uploader, append([]string{existing.FaceImage}, existing.WorkImages...))

		respondOK(c, gin.H{"message": "gardener deleted"})
	}
}

/* =======================
   SELF-SERVICE PROFILE
======================= */

// gardenerProfileFilter resolves the caller's own profile by the linked
// account id, falling back to the email claim for documents created before
// profiles carried a userId.
func gardenerProfileFilter(c *gin.Context) bson.M {
	userID := c.MustGet(middleware.CtxUserID).(primitive.ObjectID)
	email, _ := c.MustGet(middleware.CtxEmail).(string)

	or := []bson.M{{"userId": userID}}
	if email != "" {
		or = append(or, bson.M{"email": email})
	}
	return bson.M{"$or": or}
}

// GET /api/gardener/profile (gardener)
func GetGardenerProfile(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/gardener/profile"

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var gardener models.GardenerProfile
		err := db.Collection("gardeners").FindOne(ctx, gardenerProfileFilter(c)).Decode(&gardener)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "no gardener profile found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		respondOK(c, gin.H{"gardener": gardener})
	}
}

// PUT /api/gardener/profile (gardener, multipart)
func UpdateGardenerProfile(db *mongo.Database, uploader media.Uploader) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/gardener/profile"

		updateGardenerByFilter(c, db, uploader, route, gardenerProfileFilter(c))
	}
}
