package cards

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/fadedpez/affectlab/internal/logging"
	"github.com/fadedpez/affectlab/pkg/entities"
	"github.com/stretchr/testify/suite"
)

// fakeES answers the handful of endpoints the repository uses
type fakeES struct {
	mu       sync.Mutex
	indices  map[string]bool
	docs     map[string][]byte
	aliases  int
	searches []map[string]interface{}
	deleted  []string
	response string
}

func newFakeES() *fakeES {
	return &fakeES{indices: map[string]bool{}, docs: map[string][]byte{}}
}

func (f *fakeES) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("X-Elastic-Product", "Elasticsearch")
	w.Header().Set("Content-Type", "application/json")
	body, _ := io.ReadAll(req.Body)
	path := strings.TrimPrefix(req.URL.Path, "/")

	switch {
	case path == "_aliases":
		f.aliases++
		io.WriteString(w, `{"acknowledged":true}`)

	case strings.HasSuffix(path, "/_search"):
		var query map[string]interface{}
		json.Unmarshal(body, &query)
		f.searches = append(f.searches, query)
		io.WriteString(w, f.response)

	case strings.Contains(path, "/_doc/"):
		f.docs[path] = body
		w.WriteHeader(http.StatusCreated)
		io.WriteString(w, `{"result":"created"}`)

	case req.Method == http.MethodHead:
		if !f.indices[path] {
			w.WriteHeader(http.StatusNotFound)
		}

	case req.Method == http.MethodPut:
		f.indices[path] = true
		io.WriteString(w, `{"acknowledged":true}`)

	case req.Method == http.MethodGet:
		out := map[string]interface{}{}
		for name := range f.indices {
			out[name] = map[string]interface{}{}
		}
		json.NewEncoder(w).Encode(out)

	case req.Method == http.MethodDelete:
		delete(f.indices, path)
		f.deleted = append(f.deleted, path)
		io.WriteString(w, `{"acknowledged":true}`)

	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

type ElasticsearchRepositoryTestSuite struct {
	suite.Suite
	ctx    context.Context
	fake   *fakeES
	server *httptest.Server
	repo   *ElasticsearchRepository
	clock  time.Time
}

func TestElasticsearchRepositorySuite(t *testing.T) {
	suite.Run(t, new(ElasticsearchRepositoryTestSuite))
}

func (s *ElasticsearchRepositoryTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.fake = newFakeES()
	s.server = httptest.NewServer(s.fake)
	s.clock = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{s.server.URL}})
	s.Require().NoError(err)

	s.repo = &ElasticsearchRepository{
		client: client,
		config: &ElasticsearchConfig{IndexPrefix: "test", RetentionPeriod: 90 * 24 * time.Hour},
		logger: logging.NewNop(),
		now:    func() time.Time { return s.clock },
	}
}

func (s *ElasticsearchRepositoryTestSuite) TearDownTest() {
	s.server.Close()
}

func (s *ElasticsearchRepositoryTestSuite) event(id string) *Event {
	return &Event{
		UserID: "user-1",
		Result: &entities.GeneratedResult{
			ID:         id,
			TemplateID: "daily-luck",
			Rarity:     entities.RaritySSR,
			LuckScore:  97,
			Timestamp:  s.clock.UnixMilli(),
		},
		Boosted: true,
		Cost:    3,
	}
}

func (s *ElasticsearchRepositoryTestSuite) TestRotateCreatesMonthlyIndexOnce() {
	// Execute
	s.Require().NoError(s.repo.RotateIndex(s.ctx))
	s.Require().NoError(s.repo.RotateIndex(s.ctx))

	// Assert
	s.True(s.fake.indices["test_cards_2026-03"])
	s.Equal(1, s.fake.aliases, "Same month should not touch the alias again")

	s.clock = s.clock.AddDate(0, 1, 0)
	s.Require().NoError(s.repo.RotateIndex(s.ctx))
	s.True(s.fake.indices["test_cards_2026-04"])
	s.Equal(2, s.fake.aliases)
}

func (s *ElasticsearchRepositoryTestSuite) TestIndexCard() {
	// Execute
	err := s.repo.IndexCard(s.ctx, s.event("card-1"))

	// Assert
	s.Require().NoError(err)
	raw, ok := s.fake.docs["test_cards_2026-03/_doc/card-1"]
	s.Require().True(ok, "Card should be written to the current month")

	var doc map[string]interface{}
	s.Require().NoError(json.Unmarshal(raw, &doc))
	s.Equal("SSR", doc["rarity"])
	s.Equal("user-1", doc["user_id"])
	s.Equal(true, doc["boosted"])
	s.Equal(float64(97), doc["luck_score"])
}

func (s *ElasticsearchRepositoryTestSuite) TestIndexCardRequiresResult() {
	s.Error(s.repo.IndexCard(s.ctx, &Event{UserID: "user-1"}))
}

func (s *ElasticsearchRepositoryTestSuite) TestRarityDistribution() {
	// Setup
	s.fake.response = `{"aggregations":{"rarities":{"buckets":[
		{"key":"SSR","doc_count":4},{"key":"N","doc_count":10},{"key":"bogus","doc_count":2}]}}}`

	// Execute
	counts, err := s.repo.RarityDistribution(s.ctx, "daily-luck")

	// Assert
	s.Require().NoError(err)
	s.Equal(map[entities.Rarity]int64{entities.RaritySSR: 4, entities.RarityN: 10}, counts)
	s.Require().Len(s.fake.searches, 1)
	s.Equal(float64(0), s.fake.searches[0]["size"])
	s.Contains(s.fake.searches[0]["query"], "term")
}

func (s *ElasticsearchRepositoryTestSuite) TestPruneIndices() {
	// Setup
	for _, name := range []string{"test_cards_2025-10", "test_cards_2025-12", "test_cards_2026-03", "test_other"} {
		s.fake.indices[name] = true
	}

	// Execute
	s.Require().NoError(s.repo.PruneIndices(s.ctx))

	// Assert: cutoff is 2025-12-15
	s.Equal([]string{"test_cards_2025-10"}, s.fake.deleted)
}

func (s *ElasticsearchRepositoryTestSuite) TestNewRepositoryRotatesOnStart() {
	repo, err := NewElasticsearchRepository(s.ctx, &ElasticsearchConfig{URL: s.server.URL, IndexPrefix: "boot"}, logging.NewNop())

	s.Require().NoError(err)
	s.Equal("boot_cards", repo.Alias())
	s.True(s.fake.indices[IndexName("boot", time.Now())])
}

type IndexNamingTestSuite struct {
	suite.Suite
}

func TestIndexNamingSuite(t *testing.T) {
	suite.Run(t, new(IndexNamingTestSuite))
}

func (s *IndexNamingTestSuite) TestIndexNameUsesUTCMonth() {
	local := time.Date(2026, 4, 1, 2, 0, 0, 0, time.FixedZone("UTC+8", 8*3600))
	s.Equal("affectlab_cards_2026-03", IndexName("affectlab", local))
}

func (s *IndexNamingTestSuite) TestParseIndexMonth() {
	month, ok := ParseIndexMonth("affectlab", "affectlab_cards_2026-03")
	s.True(ok)
	s.Equal(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), month)

	_, ok = ParseIndexMonth("affectlab", "affectlab_cards")
	s.False(ok)
	_, ok = ParseIndexMonth("affectlab", "other_cards_2026-03")
	s.False(ok)
}

func (s *IndexNamingTestSuite) TestExpiredIndices() {
	names := []string{"p_cards_2026-01", "p_cards_2026-02", "p_cards_2026-03", "p_cards_bad"}
	cutoff := time.Date(2026, 3, 1, 0, 0, 1, 0, time.UTC)

	expired := ExpiredIndices("p", names, cutoff)
	sort.Strings(expired)

	s.Equal([]string{"p_cards_2026-01", "p_cards_2026-02"}, expired)
}

func (s *IndexNamingTestSuite) TestDistributionQuery() {
	all := DistributionQuery("")
	s.Contains(all["query"], "match_all")

	one := DistributionQuery("daily-luck")
	s.Equal(map[string]interface{}{"template_id": "daily-luck"}, one["query"].(map[string]interface{})["term"])
}

func (s *IndexNamingTestSuite) TestMemoryDistribution() {
	repo := NewMemoryRepository()
	ctx := context.Background()
	for i, r := range []entities.Rarity{entities.RarityN, entities.RarityN, entities.RaritySR} {
		tpl := "a"
		if i == 2 {
			tpl = "b"
		}
		s.Require().NoError(repo.IndexCard(ctx, &Event{Result: &entities.GeneratedResult{TemplateID: tpl, Rarity: r}}))
	}

	all, err := repo.RarityDistribution(ctx, "")
	s.Require().NoError(err)
	s.Equal(int64(2), all[entities.RarityN])
	s.Equal(int64(1), all[entities.RaritySR])

	onlyB, err := repo.RarityDistribution(ctx, "b")
	s.Require().NoError(err)
	s.Equal(map[entities.Rarity]int64{entities.RaritySR: 1}, onlyB)
}
