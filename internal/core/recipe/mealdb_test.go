package recipe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mealDBLetterResponse = `{"meals":[
  {
    "strMeal":" Apple Frangipan Tart ",
    "strInstructions":"Preheat the oven. Bake the tart.",
    "strArea":"British",
    "strTags":"Tart,Baking, Fruity,,A,B,C,D,E,F",
    "strMealThumb":"https://www.themealdb.com/images/media/meals/apple.jpg",
    "strIngredient1":"digestive biscuits","strMeasure1":"175g/6oz",
    "strIngredient2":"butter","strMeasure2":"1/2 cup",
    "strIngredient3":"Bramley apples","strMeasure3":"200g",
    "strIngredient4":"","strMeasure4":"",
    "strIngredient5":null,"strMeasure5":null,
    "strIngredient6":"salt","strMeasure6":"pinch"
  },
  {
    "strMeal":"No Steps",
    "strInstructions":"",
    "strIngredient1":"water","strMeasure1":"1 cup"
  }
]}`

func TestMealDBCatalogMealsByLetter(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search.php", r.URL.Path)
		assert.Equal(t, "a", r.URL.Query().Get("f"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(mealDBLetterResponse))
	}))
	defer server.Close()

	catalog := NewMealDBCatalog(server.URL, time.Second)

	meals, err := catalog.MealsByLetter(context.Background(), "a")

	require.NoError(t, err)
	require.Len(t, meals, 1)
	meal := meals[0]
	assert.Equal(t, "Apple Frangipan Tart", meal.Name)
	assert.Equal(t, "British", meal.CuisineType)
	assert.Equal(t, []string{"Tart", "Baking", "Fruity", "A", "B", "C", "D", "E"}, meal.Tags)
	assert.Equal(t, "https://www.themealdb.com/images/media/meals/apple.jpg", meal.ImageURL)
	assert.Equal(t, []ImportedIngredient{
		{Name: "digestive biscuits", Quantity: "175", Unit: "g/6oz"},
		{Name: "butter", Quantity: "1/2", Unit: "cup"},
		{Name: "Bramley apples", Quantity: "200", Unit: "g"},
		{Name: "salt", Unit: "pinch"},
	}, meal.Ingredients)
}

func TestMealDBCatalogNullMeals(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"meals":null}`))
	}))
	defer server.Close()

	meals, err := NewMealDBCatalog(server.URL, time.Second).MealsByLetter(context.Background(), "x")

	require.NoError(t, err)
	assert.Empty(t, meals)
}

func TestMealDBCatalogErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := NewMealDBCatalog(server.URL, time.Second).MealsByLetter(context.Background(), "a")

	assert.Error(t, err)
}
