package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/angelmondragon/artmarket-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/artmarket-storefront/pkg/errors"
	"github.com/angelmondragon/artmarket-storefront/pkg/pagination"
	"github.com/angelmondragon/artmarket-storefront/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": {"application/json"}},
	}
}

func newStubClient(t *testing.T, rt roundTripFunc) *Client {
	t.Helper()
	client, err := NewClient("http://api.test/api/v1", WithHTTPClient(&http.Client{Transport: rt}))
	require.NoError(t, err)
	return client
}

func TestNewClientValidatesBaseURL(t *testing.T) {
	_, err := NewClient("")
	assert.Error(t, err)
	_, err = NewClient("/relative")
	assert.Error(t, err)

	client, err := NewClient("http://api.test/api/v1/")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, client.httpClient.Timeout)
	assert.Equal(t, "http://api.test/api/v1/cart", client.buildURL("/cart", nil))
}

func TestCallerHTTPClientIsNotModified(t *testing.T) {
	shared := &http.Client{}
	client, err := NewClient("http://api.test/api/v1", WithHTTPClient(shared), WithTimeout(3*time.Second))
	require.NoError(t, err)

	assert.Zero(t, shared.Timeout, "the caller's client keeps its settings")
	assert.NotSame(t, shared, client.httpClient)
	assert.Equal(t, 3*time.Second, client.httpClient.Timeout)

	// Option order does not matter.
	client, err = NewClient("http://api.test/api/v1", WithTimeout(2*time.Second), WithHTTPClient(shared))
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, client.httpClient.Timeout)
	assert.Zero(t, shared.Timeout)

	_, err = NewClient("http://api.test/api/v1", WithHTTPClient(http.DefaultClient))
	require.NoError(t, err)
	assert.Zero(t, http.DefaultClient.Timeout)
}

func TestBearerTokenAndEnvelopeDecoding(t *testing.T) {
	var captured *http.Request
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		captured = req
		return jsonResponse(http.StatusOK, `{"data":{"_id":"a1","title":"Dusk","artist":{"id":"ar1","name":"R. Iyer"},"price":"1,200","images":["dusk.jpg"]}}`), nil
	})

	client.SetToken("tok-123")
	art, err := client.GetArtwork(context.Background(), "a1")
	require.NoError(t, err)

	assert.Equal(t, "http://api.test/api/v1/artworks/a1", captured.URL.String())
	assert.Equal(t, "Bearer tok-123", captured.Header.Get("Authorization"))
	assert.NotEmpty(t, captured.Header.Get("X-Request-ID"))

	assert.Equal(t, "a1", art.ID)
	assert.Equal(t, "R. Iyer", art.ArtistName)
	assert.Equal(t, "ar1", art.ArtistID)
	require.NotNil(t, art.Price)
	assert.Equal(t, 1200.0, *art.Price)
	assert.Equal(t, "dusk.jpg", art.ImageURL)
	assert.True(t, art.IsForSale)
}

func TestNoAuthorizationHeaderWithoutToken(t *testing.T) {
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Empty(t, req.Header.Get("Authorization"))
		return jsonResponse(http.StatusOK, `{"data":["painting","sculpture"]}`), nil
	})
	categories, err := client.ArtworkCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"painting", "sculpture"}, categories)
}

func TestUnwrappedPayloadIsAccepted(t *testing.T) {
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `[{"id":"ar1","name":"Meera","location":"Goa"}]`), nil
	})
	artists, err := client.FeaturedArtists(context.Background())
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "Goa", artists[0].Area)
}

func TestServerMessageExtraction(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		code   pkgerrors.Code
		msg    string
	}{
		{"structured error", http.StatusBadRequest, `{"error":{"code":"VALIDATION_ERROR","message":"artwork sold out"}}`, pkgerrors.CodeServer, "artwork sold out"},
		{"top-level message", http.StatusConflict, `{"message":"already in cart"}`, pkgerrors.CodeServer, "already in cart"},
		{"no body", http.StatusInternalServerError, ``, pkgerrors.CodeServer, "request failed with status 500"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, pkgerrors.CodeServer, "request failed with status 502"},
		{"not found", http.StatusNotFound, `{"error":{"code":"NOT_FOUND","message":"artwork not found"}}`, pkgerrors.CodeNotFound, "artwork not found"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
				return jsonResponse(tc.status, tc.body), nil
			})
			_, err := client.GetArtwork(context.Background(), "a1")
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, tc.code, typed.Code())
			assert.Equal(t, tc.msg, typed.Message())
		})
	}
}

func TestUnauthorizedHookFiresOnlyForTokenBearingRequests(t *testing.T) {
	var calls int32
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`), nil
	})
	client.SetUnauthorizedHandler(func(ctx context.Context) {
		atomic.AddInt32(&calls, 1)
	})

	_, err := client.Login(context.Background(), "a@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls), "failed login must not trigger the session cascade")

	client.SetToken("stale")
	_, err = client.GetCart(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeSessionExpired))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTimeoutSurfacesAsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client, err := NewClient(srv.URL, WithTimeout(30*time.Millisecond))
	require.NoError(t, err)

	_, err = client.GetCart(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNetwork), "got %v", err)
}

func TestUnreachableServerIsNetworkError(t *testing.T) {
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		return nil, io.ErrUnexpectedEOF
	})
	err := client.ClearCart(context.Background())
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeNetwork))
}

func TestListArtworksEncodesQuery(t *testing.T) {
	var query map[string][]string
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		query = req.URL.Query()
		return jsonResponse(http.StatusOK, `{"data":{"items":[{"id":"a1","title":"One","price":10},{"title":"no id"}],"page":2,"limit":5,"total":6}}`), nil
	})

	minPrice := 100.0
	forSale := true
	page, err := client.ListArtworks(context.Background(), ArtworkQuery{
		Filter:    types.ArtworkFilter{Category: "painting", Search: " river ", MinPrice: &minPrice, ForSale: &forSale},
		SortBy:    enums.ArtworkSortPrice,
		SortOrder: enums.SortOrderDesc,
		Page:      pagination.Params{Page: 2, Limit: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"2"}, query["page"])
	assert.Equal(t, []string{"5"}, query["limit"])
	assert.Equal(t, []string{"price"}, query["sortBy"])
	assert.Equal(t, []string{"desc"}, query["sortOrder"])
	assert.Equal(t, []string{"painting"}, query["category"])
	assert.Equal(t, []string{"river"}, query["search"])
	assert.Equal(t, []string{"100"}, query["minPrice"])
	assert.Equal(t, []string{"true"}, query["forSale"])
	assert.NotContains(t, query, "maxPrice")

	require.Len(t, page.Items, 1, "items without an id are dropped")
	assert.Equal(t, 6, page.Total)
}

func TestCartEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]any
	}
	var calls []call
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		c := call{method: req.Method, path: req.URL.Path}
		if req.Body != nil {
			raw, _ := io.ReadAll(req.Body)
			if len(raw) > 0 {
				_ = json.Unmarshal(raw, &c.body)
			}
		}
		calls = append(calls, c)
		if req.Method == http.MethodGet {
			return jsonResponse(http.StatusOK, `{"data":{"id":"c1","items":[{"id":"line-1","artworkId":"a1","quantity":2,"price":100,"artwork":{"id":"a1","title":"Dusk"}}]}}`), nil
		}
		return jsonResponse(http.StatusNoContent, ``), nil
	})
	client.SetToken("tok")
	ctx := context.Background()

	cart, err := client.GetCart(ctx)
	require.NoError(t, err)
	line, ok := cart.LineFor("a1")
	require.True(t, ok)
	assert.Equal(t, "line-1", line.LineID)
	assert.Equal(t, 2, line.Item.Quantity)

	require.NoError(t, client.AddCartItem(ctx, "a2", 3))
	require.NoError(t, client.UpdateCartItem(ctx, "line-1", 5))
	require.NoError(t, client.DeleteCartItem(ctx, "line-1"))
	require.NoError(t, client.ClearCart(ctx))

	require.Len(t, calls, 5)
	assert.Equal(t, call{method: "POST", path: "/api/v1/cart/items", body: map[string]any{"artworkId": "a2", "quantity": float64(3)}}, calls[1])
	assert.Equal(t, "PUT", calls[2].method)
	assert.Equal(t, "/api/v1/cart/items/line-1", calls[2].path)
	assert.Equal(t, float64(5), calls[2].body["quantity"])
	assert.Equal(t, call{method: "DELETE", path: "/api/v1/cart/items/line-1"}, calls[3])
	assert.Equal(t, call{method: "DELETE", path: "/api/v1/cart"}, calls[4])

	assert.True(t, pkgerrors.Is(client.AddCartItem(ctx, "a1", 0), pkgerrors.CodeValidation))
	assert.True(t, pkgerrors.Is(client.DeleteCartItem(ctx, " "), pkgerrors.CodeValidation))
	assert.Len(t, calls, 5, "invalid input never reaches the network")
}

func TestAuthenticateRequiresToken(t *testing.T) {
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"user":{"id":"u1","email":"a@example.com"}}}`), nil
	})
	_, err := client.Login(context.Background(), "a@example.com", "pw")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeServer))

	client = newStubClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":{"accessToken":"t1","user":{"_id":"u1","firstName":"Asha","lastName":"Rao","email":"a@example.com"}}}`), nil
	})
	res, err := client.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "t1", res.Token)
	assert.Equal(t, "Asha Rao", res.User.Name)
	assert.False(t, client.Authenticated(), "login does not install the token by itself")
}

func TestSessionOnlyEndpointsShortCircuit(t *testing.T) {
	var calls int32
	client := newStubClient(t, func(req *http.Request) (*http.Response, error) {
		atomic.AddInt32(&calls, 1)
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	ctx := context.Background()

	_, err := client.ToggleLike(ctx, "a1")
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAuthRequired))
	_, err = client.CreateOrder(ctx, OrderRequest{})
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAuthRequired))
	_, err = client.ListOrders(ctx)
	assert.True(t, pkgerrors.Is(err, pkgerrors.CodeAuthRequired))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}
