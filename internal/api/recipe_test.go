package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartrecipe/backend/internal/testhelpers"
)

func TestRecipeLifecycle(t *testing.T) {
	env := newTestEnv(t)
	author := testhelpers.CreateUser(t, env.db, "chef")
	other := testhelpers.CreateUser(t, env.db, "guest")
	tomato := testhelpers.CreateIngredient(t, env.db, "西红柿", 18, 0.9, 0.2, 3.9)
	egg := testhelpers.CreateIngredient(t, env.db, "鸡蛋", 143, 12.6, 9.5, 0.7)
	chefToken := env.login(author)
	guestToken := env.login(other)

	var created map[string]interface{}
	w := env.do("POST", "/api/recipe/create", chefToken, map[string]interface{}{
		"name":       "西红柿炒鸡蛋",
		"difficulty": "easy",
		"category":   "lunch",
		"tags":       []string{"家常"},
		"ingredients": []map[string]interface{}{
			{"ingredient_id": tomato.ID, "quantity": 200, "is_main": true},
			{"ingredient_id": egg.ID, "quantity": 100},
		},
		"steps": []map[string]interface{}{
			{"step_number": 1, "description": "打蛋"},
			{"step_number": 2, "description": "翻炒"},
		},
	})
	decode(t, w, http.StatusCreated, &created)
	id := created["id"].(string)
	assert.Equal(t, "简单", created["difficulty_display"])
	assert.Len(t, created["ingredients"], 2)
	assert.Len(t, created["steps"], 2)
	author1 := created["author"].(map[string]interface{})
	assert.Equal(t, "chef", author1["username"])
	assert.NotContains(t, author1, "password_hash")

	var detail map[string]interface{}
	decode(t, env.do("GET", "/api/recipe/"+id, "", nil), http.StatusOK, &detail)
	assert.Equal(t, float64(1), detail["views"])
	assert.Equal(t, false, detail["is_liked"])

	var liked map[string]interface{}
	decode(t, env.do("POST", "/api/recipe/"+id+"/like", guestToken, nil), http.StatusOK, &liked)
	assert.Equal(t, true, liked["is_liked"])
	assert.Equal(t, float64(1), liked["likes"])

	decode(t, env.do("GET", "/api/recipe/"+id, guestToken, nil), http.StatusOK, &detail)
	assert.Equal(t, true, detail["is_liked"])
	assert.Equal(t, float64(2), detail["views"])

	decode(t, env.do("POST", "/api/recipe/"+id+"/like", guestToken, nil), http.StatusOK, &liked)
	assert.Equal(t, false, liked["is_liked"])
	assert.Equal(t, float64(0), liked["likes"])

	decode(t, env.do("PATCH", "/api/recipe/"+id, guestToken, map[string]string{"name": "hijacked"}), http.StatusForbidden, nil)
	decode(t, env.do("DELETE", "/api/recipe/"+id, guestToken, nil), http.StatusForbidden, nil)

	var updated map[string]interface{}
	decode(t, env.do("PATCH", "/api/recipe/"+id+"/update", chefToken, map[string]string{"description": "快手菜"}), http.StatusOK, &updated)
	assert.Equal(t, "快手菜", updated["description"])
	assert.Equal(t, "西红柿炒鸡蛋", updated["name"])

	var list pageBody
	decode(t, env.do("GET", "/api/recipe/", "", nil), http.StatusOK, &list)
	assert.Equal(t, int64(1), list.Count)

	decode(t, env.do("DELETE", "/api/recipe/"+id+"/delete", chefToken, nil), http.StatusOK, nil)
	decode(t, env.do("GET", "/api/recipe/"+id, "", nil), http.StatusNotFound, nil)
}

func TestRecipeCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(testhelpers.CreateUser(t, env.db, "chef"))

	decode(t, env.do("POST", "/api/recipe/create", "", map[string]string{"name": "x"}), http.StatusUnauthorized, nil)

	var fields map[string][]string
	decode(t, env.do("POST", "/api/recipe/create", token, map[string]string{"difficulty": "extreme"}), http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "difficulty")

	decode(t, env.do("POST", "/api/recipe/create", token, map[string]interface{}{
		"name": "两步一号",
		"steps": []map[string]interface{}{
			{"step_number": 1, "description": "a"},
			{"step_number": 1, "description": "b"},
		},
	}), http.StatusBadRequest, &fields)
	assert.Contains(t, fields, "steps")
}

func TestDraftRecipeVisibleOnlyToAuthor(t *testing.T) {
	env := newTestEnv(t)
	author := testhelpers.CreateUser(t, env.db, "chef")
	draft := testhelpers.CreateRecipe(t, env.db, author, "草稿", testhelpers.Unpublished())

	decode(t, env.do("GET", "/api/recipe/"+draft.ID.String(), "", nil), http.StatusNotFound, nil)
	other := env.login(testhelpers.CreateUser(t, env.db, "guest"))
	decode(t, env.do("GET", "/api/recipe/"+draft.ID.String(), other, nil), http.StatusNotFound, nil)
	decode(t, env.do("GET", "/api/recipe/"+draft.ID.String(), env.login(author), nil), http.StatusOK, nil)

	var mine pageBody
	decode(t, env.do("GET", "/api/recipe/my-recipes", env.login(author), nil), http.StatusOK, &mine)
	assert.Equal(t, int64(1), mine.Count)
}

func TestRecipePagination(t *testing.T) {
	env := newTestEnv(t)
	author := testhelpers.CreateUser(t, env.db, "chef")
	for i := 0; i < 5; i++ {
		testhelpers.CreateRecipe(t, env.db, author, fmt.Sprintf("菜%d", i))
	}

	var first pageBody
	decode(t, env.do("GET", "/api/recipe/?page_size=2", "", nil), http.StatusOK, &first)
	assert.Equal(t, int64(5), first.Count)
	assert.Len(t, first.Results, 2)
	require.NotNil(t, first.Next)
	assert.Equal(t, "http://example.com/api/recipe/?page=2&page_size=2", *first.Next)
	assert.Nil(t, first.Previous)

	var last pageBody
	decode(t, env.do("GET", "/api/recipe/?page=3&page_size=2", "", nil), http.StatusOK, &last)
	assert.Len(t, last.Results, 1)
	assert.Nil(t, last.Next)
	require.NotNil(t, last.Previous)
	assert.Equal(t, "http://example.com/api/recipe/?page=2&page_size=2", *last.Previous)

	var second pageBody
	decode(t, env.do("GET", "/api/recipe/?page=2&page_size=2", "", nil), http.StatusOK, &second)
	require.NotNil(t, second.Previous)
	assert.Equal(t, "http://example.com/api/recipe/?page_size=2", *second.Previous)

	decode(t, env.do("GET", "/api/recipe/?page=4&page_size=2", "", nil), http.StatusNotFound, nil)
	decode(t, env.do("GET", "/api/recipe/?page=abc", "", nil), http.StatusNotFound, nil)
	decode(t, env.do("GET", "/api/recipe/?page=0", "", nil), http.StatusNotFound, nil)

	var clamped pageBody
	decode(t, env.do("GET", "/api/recipe/?page_size=1000", "", nil), http.StatusOK, &clamped)
	assert.Len(t, clamped.Results, 5)
}

func TestMalformedRecipeIDIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	decode(t, env.do("GET", "/api/recipe/not-a-uuid", "", nil), http.StatusNotFound, nil)
}
