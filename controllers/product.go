package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaymart-backend/middleware"
	"zaymart-backend/models"
	"zaymart-backend/utils"
)

const maxUploadMemory = 32 << 20 // 32MB multipart buffer

// ProductController handles catalog requests.
type ProductController struct {
	Products *mongo.Collection
	Uploader *utils.Uploader
}

// NewProductController creates a new ProductController.
func NewProductController(client *mongo.Client, uploader *utils.Uploader) *ProductController {
	return &ProductController{
		Products: client.Database(utils.DatabaseName).Collection("products"),
		Uploader: uploader,
	}
}

// List retrieves active products with optional category/search filters and
// pagination.
func (pc *ProductController) List(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"is_active": true}

	if category := r.URL.Query().Get("category"); category != "" {
		categoryID, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid category ID")
			return
		}
		filter["category"] = categoryID
	}
	if search := r.URL.Query().Get("search"); search != "" {
		filter["name"] = bson.M{"$regex": search, "$options": "i"}
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 50 {
		limit = 10
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := pc.Products.Find(ctx, filter, opts)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// GetByID retrieves a single product by ID
func (pc *ProductController) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var product models.Product
	if err := pc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create adds a new listing for the authenticated seller. The request is
// multipart: up to 10 image files plus form fields.
func (pc *ProductController) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	product, err := productFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if r.MultipartForm != nil {
		urls, err := pc.Uploader.UploadProductImages(ctx, r.MultipartForm.File["images"])
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to upload images")
			return
		}
		product.Images = urls
	}
	if len(product.Images) == 0 {
		writeError(w, http.StatusBadRequest, "At least one product image is required")
		return
	}

	now := time.Now()
	product.ID = primitive.NewObjectID()
	product.Seller = sellerID
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := pc.Products.InsertOne(ctx, product); err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating product")
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update modifies a listing. Only the owning seller or an admin may update;
// the final image set must not be empty.
func (pc *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	actorID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	var existing models.Product
	if err := pc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&existing); err != nil {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}
	if claims.Role != models.RoleAdmin && existing.Seller != actorID {
		// Denial is indistinguishable from absence.
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to parse multipart form")
		return
	}

	updated, err := productFromForm(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Final image set: kept existing images plus any new uploads.
	images := []string{}
	if raw := r.FormValue("existingImages"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &images); err != nil {
			images = []string{}
		}
	}
	newURLs, err := pc.Uploader.UploadProductImages(ctx, r.MultipartForm.File["images"])
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to upload images")
		return
	}
	images = append(images, newURLs...)
	if len(images) == 0 {
		writeError(w, http.StatusBadRequest, "At least one product image is required")
		return
	}
	if len(images) > models.MaxProductImages {
		images = images[:models.MaxProductImages]
	}

	set := bson.M{
		"name":        updated.Name,
		"description": updated.Description,
		"price":       updated.Price,
		"weight":      updated.Weight,
		"colors":      updated.Colors,
		"sizes":       updated.Sizes,
		"images":      images,
		"updated_at":  time.Now(),
	}
	if !updated.Category.IsZero() {
		set["category"] = updated.Category
	}

	var result models.Product
	err = pc.Products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, optionsReturnAfter()).Decode(&result)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating product")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Delete deactivates a listing. Soft delete keeps it resolvable from old
// orders and favorites.
func (pc *ProductController) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	actorID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	filter := bson.M{"_id": id}
	if claims.Role != models.RoleAdmin {
		filter["seller"] = actorID
	}

	result, err := pc.Products.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_active": false, "updated_at": time.Now()}})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting product")
		return
	}
	if result.MatchedCount == 0 {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// SellerProducts lists the authenticated seller's own products.
func (pc *ProductController) SellerProducts(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	cursor, err := pc.Products.Find(ctx, bson.M{"seller": sellerID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching products")
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading products")
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// productFromForm parses the multipart form fields shared by create and
// update: price/weight floats, colors as CSV, sizes as a JSON array.
func productFromForm(r *http.Request) (models.Product, error) {
	var product models.Product

	product.Name = strings.TrimSpace(r.FormValue("name"))
	if product.Name == "" {
		return product, errInvalid("Product name is required")
	}
	product.Description = r.FormValue("description")

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price < 0 {
		return product, errInvalid("Invalid price")
	}
	product.Price = price

	if raw := r.FormValue("weight"); raw != "" {
		weight, err := strconv.ParseFloat(raw, 64)
		if err != nil || weight < 0 {
			return product, errInvalid("Invalid weight")
		}
		product.Weight = weight
	}

	product.Colors = []string{}
	if raw := r.FormValue("colors"); raw != "" {
		for _, color := range strings.Split(raw, ",") {
			if color = strings.TrimSpace(color); color != "" {
				product.Colors = append(product.Colors, color)
			}
		}
	}

	product.Sizes = []string{}
	if raw := r.FormValue("sizes"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &product.Sizes); err != nil {
			product.Sizes = []string{}
		}
	}

	if raw := r.FormValue("category"); raw != "" {
		categoryID, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return product, errInvalid("Invalid category ID")
		}
		product.Category = categoryID
	}

	return product, nil
}

type errInvalid string

func (e errInvalid) Error() string { return string(e) }
