package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// CategoryController handles catalog categories.
type CategoryController struct {
	Categories *mongo.Collection
}

// NewCategoryController creates a new CategoryController.
func NewCategoryController(client *mongo.Client) *CategoryController {
	return &CategoryController{
		Categories: client.Database(utils.DatabaseName).Collection("categories"),
	}
}

// List returns all categories.
func (cc *CategoryController) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := cc.Categories.Find(ctx, bson.M{})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching categories")
		return
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading categories")
		return
	}

	writeJSON(w, http.StatusOK, categories)
}

// Create adds a category (admin only, name must be unique).
func (cc *CategoryController) Create(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Category name is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	name := strings.TrimSpace(req.Name)
	count, err := cc.Categories.CountDocuments(ctx, bson.M{"name": name})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "Category already exists")
		return
	}

	category := models.Category{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: req.Description,
	}
	if _, err := cc.Categories.InsertOne(ctx, category); err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating category")
		return
	}

	writeJSON(w, http.StatusCreated, category)
}
