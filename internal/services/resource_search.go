package services

import (
  "context"
  "encoding/json"
  "fmt"
  "io"
  "net/http"
  "net/url"
  "os"
  "regexp"
  "strconv"
  "strings"
  "time"

  "github.com/courseloom/backend/internal/curriculum"
  "github.com/courseloom/backend/internal/logger"
)

// ResourceSearchService finds raw resource candidates for a session, one
// method per category. A failed search returns an error; callers degrade a
// failed category to an empty slice rather than failing the whole fetch.
type ResourceSearchService interface {
  SearchYouTube(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error)
  SearchArticles(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error)
  SearchPDFs(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error)
  SearchPresentations(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error)
  SearchInteractive(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error)
}

type googleSearchService struct {
  log           *logger.Logger
  youtubeAPIKey string
  searchAPIKey  string
  searchCX      string
  cache         SearchCache
  httpClient    *http.Client
}

func NewGoogleSearchService(log *logger.Logger, cache SearchCache) ResourceSearchService {
  return &googleSearchService{
    log:           log.With("service", "ResourceSearchService"),
    youtubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
    searchAPIKey:  os.Getenv("GOOGLE_SEARCH_API_KEY"),
    searchCX:      os.Getenv("GOOGLE_SEARCH_ENGINE_ID"),
    cache:         cache,
    httpClient:    &http.Client{Timeout: 15 * time.Second},
  }
}

func (s *googleSearchService) getJSON(ctx context.Context, endpoint string, out any) error {
  req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
  if err != nil {
    return err
  }
  resp, err := s.httpClient.Do(req)
  if err != nil {
    return err
  }
  defer resp.Body.Close()
  raw, err := io.ReadAll(resp.Body)
  if err != nil {
    return err
  }
  if resp.StatusCode < 200 || resp.StatusCode >= 300 {
    return fmt.Errorf("search http %d: %s", resp.StatusCode, string(raw))
  }
  return json.Unmarshal(raw, out)
}

func (s *googleSearchService) cached(ctx context.Context, key string, fetch func() ([]curriculum.RawResource, error)) ([]curriculum.RawResource, error) {
  if s.cache != nil {
    if hit, ok := s.cache.Get(ctx, key); ok {
      return hit, nil
    }
  }
  results, err := fetch()
  if err != nil {
    return nil, err
  }
  if s.cache != nil {
    s.cache.Set(ctx, key, results)
  }
  return results, nil
}

type youtubeSearchResponse struct {
  Items []struct {
    ID struct {
      VideoID string `json:"videoId"`
    } `json:"id"`
    Snippet struct {
      Title        string `json:"title"`
      Description  string `json:"description"`
      ChannelTitle string `json:"channelTitle"`
      Thumbnails   struct {
        Medium struct {
          URL string `json:"url"`
        } `json:"medium"`
      } `json:"thumbnails"`
    } `json:"snippet"`
  } `json:"items"`
}

type youtubeVideosResponse struct {
  Items []struct {
    ID             string `json:"id"`
    ContentDetails struct {
      Duration string `json:"duration"`
    } `json:"contentDetails"`
  } `json:"items"`
}

func (s *googleSearchService) SearchYouTube(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
  if s.youtubeAPIKey == "" {
    return nil, fmt.Errorf("missing YOUTUBE_API_KEY")
  }
  return s.cached(ctx, "yt:"+query, func() ([]curriculum.RawResource, error) {
    q := url.Values{}
    q.Set("part", "snippet")
    q.Set("q", query)
    q.Set("type", "video")
    q.Set("maxResults", strconv.Itoa(maxResults))
    q.Set("videoEmbeddable", "true")
    q.Set("relevanceLanguage", "en")
    q.Set("safeSearch", "strict")
    q.Set("key", s.youtubeAPIKey)

    var search youtubeSearchResponse
    if err := s.getJSON(ctx, "https://www.googleapis.com/youtube/v3/search?"+q.Encode(), &search); err != nil {
      return nil, err
    }
    if len(search.Items) == 0 {
      return []curriculum.RawResource{}, nil
    }

    ids := make([]string, 0, len(search.Items))
    for _, item := range search.Items {
      if item.ID.VideoID != "" {
        ids = append(ids, item.ID.VideoID)
      }
    }
    durations := map[string]string{}
    if len(ids) > 0 {
      dq := url.Values{}
      dq.Set("part", "contentDetails")
      dq.Set("id", strings.Join(ids, ","))
      dq.Set("key", s.youtubeAPIKey)
      var videos youtubeVideosResponse
      if err := s.getJSON(ctx, "https://www.googleapis.com/youtube/v3/videos?"+dq.Encode(), &videos); err == nil {
        for _, v := range videos.Items {
          durations[v.ID] = formatISODuration(v.ContentDetails.Duration)
        }
      }
    }

    out := make([]curriculum.RawResource, 0, len(search.Items))
    for _, item := range search.Items {
      if item.ID.VideoID == "" {
        continue
      }
      out = append(out, curriculum.RawResource{
        Type:         "youtube",
        Title:        item.Snippet.Title,
        URL:          "https://www.youtube.com/watch?v=" + item.ID.VideoID,
        Description:  item.Snippet.Description,
        ThumbnailURL: item.Snippet.Thumbnails.Medium.URL,
        SourceName:   item.Snippet.ChannelTitle,
        Duration:     durations[item.ID.VideoID],
      })
    }
    return out, nil
  })
}

type customSearchResponse struct {
  Items []struct {
    Title       string `json:"title"`
    Link        string `json:"link"`
    Snippet     string `json:"snippet"`
    DisplayLink string `json:"displayLink"`
    Pagemap     struct {
      CSEThumbnail []struct {
        Src string `json:"src"`
      } `json:"cse_thumbnail"`
    } `json:"pagemap"`
  } `json:"items"`
}

func (s *googleSearchService) customSearch(ctx context.Context, resourceType, query, extra string, maxResults int) ([]curriculum.RawResource, error) {
  if s.searchAPIKey == "" || s.searchCX == "" {
    return nil, fmt.Errorf("missing GOOGLE_SEARCH_API_KEY or GOOGLE_SEARCH_ENGINE_ID")
  }
  cacheKey := resourceType + ":" + query
  return s.cached(ctx, cacheKey, func() ([]curriculum.RawResource, error) {
    full := strings.TrimSpace(query + " " + extra)
    q := url.Values{}
    q.Set("key", s.searchAPIKey)
    q.Set("cx", s.searchCX)
    q.Set("q", full)
    q.Set("num", strconv.Itoa(maxResults))

    var resp customSearchResponse
    if err := s.getJSON(ctx, "https://www.googleapis.com/customsearch/v1?"+q.Encode(), &resp); err != nil {
      return nil, err
    }
    out := make([]curriculum.RawResource, 0, len(resp.Items))
    for _, item := range resp.Items {
      thumb := ""
      if len(item.Pagemap.CSEThumbnail) > 0 {
        thumb = item.Pagemap.CSEThumbnail[0].Src
      }
      out = append(out, curriculum.RawResource{
        Type:         resourceType,
        Title:        item.Title,
        URL:          item.Link,
        Description:  item.Snippet,
        ThumbnailURL: thumb,
        SourceName:   item.DisplayLink,
      })
    }
    return out, nil
  })
}

func (s *googleSearchService) SearchArticles(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
  return s.customSearch(ctx, "article", query, "tutorial OR guide OR explanation -site:youtube.com", maxResults)
}

func (s *googleSearchService) SearchPDFs(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
  return s.customSearch(ctx, "pdf", query, "filetype:pdf lecture notes OR course material", maxResults)
}

func (s *googleSearchService) SearchPresentations(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
  return s.customSearch(ctx, "presentation", query, "filetype:ppt OR filetype:pptx OR site:slideshare.net", maxResults)
}

func (s *googleSearchService) SearchInteractive(ctx context.Context, query string, maxResults int) ([]curriculum.RawResource, error) {
  return s.customSearch(ctx, "interactive", query, "interactive simulation OR visualization OR demo", maxResults)
}

var isoDurationRe = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// formatISODuration renders an ISO 8601 video duration as h:mm:ss or m:ss.
func formatISODuration(iso string) string {
  m := isoDurationRe.FindStringSubmatch(iso)
  if m == nil {
    return ""
  }
  h, _ := strconv.Atoi(m[1])
  min, _ := strconv.Atoi(m[2])
  sec, _ := strconv.Atoi(m[3])
  if h > 0 {
    return fmt.Sprintf("%d:%02d:%02d", h, min, sec)
  }
  return fmt.Sprintf("%d:%02d", min, sec)
}
