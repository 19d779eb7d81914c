package handler

import (
	"net/http"
	"testing"

	"shortlink/internal/mocks"
	"shortlink/internal/model"
	"shortlink/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func newTestRedirectRouter(h *RedirectHandler) *gin.Engine {
	router := newTestEngine()
	router.GET("/:slug", h.Redirect)
	return router
}

func TestNewRedirectHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	handler := NewRedirectHandler(mocks.NewMockLinkServiceInterface(ctrl), mocks.NewMockClickDispatcherInterface(ctrl))

	assert.NotNil(t, handler)
}

func TestRedirectHandler_Redirect(t *testing.T) {
	t.Run("successful redirect", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		links := mocks.NewMockLinkServiceInterface(ctrl)
		dispatcher := mocks.NewMockClickDispatcherInterface(ctrl)
		router := newTestRedirectRouter(NewRedirectHandler(links, dispatcher))

		links.EXPECT().Resolve(gomock.Any(), "ABCD").Return("https://example.com/landing", nil)
		dispatcher.EXPECT().
			Dispatch("ABCD", gomock.Any()).
			DoAndReturn(func(_ string, rc model.RequestContext) bool {
				assert.Equal(t, "sid-1", rc.SessionID)
				assert.Equal(t, "test-agent", rc.UserAgent)
				assert.Equal(t, "https://news.example.com/", rc.Referer)
				assert.Equal(t, "US", rc.Country)
				assert.Equal(t, "CA", rc.Region)
				return true
			})

		w := doRequest(t, router, "GET", "/ABCD", nil,
			withSession("sid-1"),
			withHeader("User-Agent", "test-agent"),
			withHeader("Referer", "https://news.example.com/"),
			withHeader("X-Geo-Country", "us"),
			withHeader("X-Geo-Region", "ca"),
		)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "https://example.com/landing", w.Header().Get("Location"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})

	t.Run("dropped click still redirects", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		links := mocks.NewMockLinkServiceInterface(ctrl)
		dispatcher := mocks.NewMockClickDispatcherInterface(ctrl)
		router := newTestRedirectRouter(NewRedirectHandler(links, dispatcher))

		links.EXPECT().Resolve(gomock.Any(), "ABCD").Return("https://example.com/", nil)
		dispatcher.EXPECT().Dispatch("ABCD", gomock.Any()).Return(false)

		w := doRequest(t, router, "GET", "/ABCD", nil)

		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("unknown and disabled links are not tracked", func(t *testing.T) {
		tests := []struct {
			err  error
			want int
		}{
			{service.ErrLinkNotFound, http.StatusNotFound},
			{service.ErrLinkDisabled, http.StatusGone},
		}

		for _, tt := range tests {
			ctrl := gomock.NewController(t)
			links := mocks.NewMockLinkServiceInterface(ctrl)
			dispatcher := mocks.NewMockClickDispatcherInterface(ctrl)
			router := newTestRedirectRouter(NewRedirectHandler(links, dispatcher))

			links.EXPECT().Resolve(gomock.Any(), "gone").Return("", tt.err)

			w := doRequest(t, router, "GET", "/gone", nil)

			assert.Equal(t, tt.want, w.Code)
			assert.Equal(t, tt.want, decodeError(t, w).Code)
			ctrl.Finish()
		}
	})
}
