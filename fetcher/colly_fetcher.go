package fetcher

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jochie/teletekst/models"
	"github.com/jochie/teletekst/parser"
)

// pageData is the JSON document served per page by the Teletekst backend
type pageData struct {
	Content     string `json:"content"`
	PrevPage    string `json:"prevPage"`
	NextPage    string `json:"nextPage"`
	PrevSubPage string `json:"prevSubPage"`
	NextSubPage string `json:"nextSubPage"`
}

// CollyFetcher implements the Fetcher interface using colly against the
// Teletekst JSON backend
type CollyFetcher struct {
	collector  *colly.Collector
	parser     *parser.Parser
	baseURL    string
	indexPages []int
	startPage  int
	lastPage   int

	// response captured by the OnResponse callback of the latest Visit
	lastBody []byte
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(baseURL string, indexPages []int, startPage, lastPage int) *CollyFetcher {
	c := colly.NewCollector()

	// Be gentle with the backend; one page at a time is plenty
	c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       500 * time.Millisecond,
	})

	c.OnError(func(r *colly.Response, err error) {
		log.Printf("Error fetching %s: %v\n", r.Request.URL, err)
	})

	cf := &CollyFetcher{
		collector:  c,
		parser:     parser.NewParser(),
		baseURL:    baseURL,
		indexPages: indexPages,
		startPage:  startPage,
		lastPage:   lastPage,
	}

	c.OnResponse(func(r *colly.Response) {
		cf.lastBody = r.Body
	})

	return cf
}

// Fetch walks the news pages: the index pages first to learn which pages are
// referenced, then the content pages from the start page following nextPage
// links, and finally any index-referenced pages the walk never reached.
func (cf *CollyFetcher) Fetch() (models.Snapshot, error) {
	// Cache buster, also keeps colly's URL dedupe out of the way across runs
	stamp := time.Now().Unix()

	snapshot := models.Snapshot{}
	referenced := map[int]bool{}

	for _, idx := range cf.indexPages {
		data, err := cf.fetchPage(idx, stamp)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch index page %d: %w", idx, err)
		}
		if data == nil {
			log.Printf("Warning: index page %d is missing\n", idx)
			continue
		}
		text, err := cf.parser.ExtractText(data.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text of index page %d: %w", idx, err)
		}
		for _, h := range cf.parser.ParseHeadlines(text) {
			referenced[h.Number] = true
		}
	}

	// Walk the content pages via their nextPage links
	current := cf.startPage
	for current <= cf.lastPage {
		data, err := cf.fetchPage(current, stamp)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch page %d: %w", current, err)
		}
		if data == nil {
			log.Printf("Warning: page %d disappeared mid-walk, stopping\n", current)
			break
		}

		if err := cf.addPage(snapshot, current, data); err != nil {
			log.Printf("Warning: skipping page %d: %v\n", current, err)
		}
		delete(referenced, current)

		next, err := strconv.Atoi(data.NextPage)
		if err != nil {
			// No next-page link means the walk is done
			break
		}
		current = next
	}

	// Index pages regularly reference pages outside the walked chain, and
	// occasionally pages that no longer exist. Fetch the stragglers, skip
	// the ghosts.
	leftover := make([]int, 0, len(referenced))
	for n := range referenced {
		leftover = append(leftover, n)
	}
	sort.Ints(leftover)
	for _, n := range leftover {
		if _, ok := snapshot[n]; ok {
			continue
		}
		data, err := cf.fetchPage(n, stamp)
		if err != nil {
			log.Printf("Warning: failed to fetch referenced page %d: %v\n", n, err)
			continue
		}
		if data == nil {
			continue
		}
		if err := cf.addPage(snapshot, n, data); err != nil {
			log.Printf("Warning: skipping referenced page %d: %v\n", n, err)
		}
	}

	log.Printf("Fetch completed. Pages in snapshot: %d\n", len(snapshot))
	return snapshot, nil
}

// fetchPage retrieves one page's JSON document. A nil result without error
// means the page does not exist (the backend serves an empty body).
func (cf *CollyFetcher) fetchPage(number int, stamp int64) (*pageData, error) {
	// Only the first sub-page of multi-page articles is fetched
	url := fmt.Sprintf("%s/json/%d-1?t=%d", cf.baseURL, number, stamp)

	cf.lastBody = nil
	if err := cf.collector.Visit(url); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", url, err)
	}

	if len(cf.lastBody) == 0 {
		return nil, nil
	}

	var data pageData
	if err := json.Unmarshal(cf.lastBody, &data); err != nil {
		return nil, fmt.Errorf("failed to parse JSON for page %d: %w", number, err)
	}
	return &data, nil
}

// addPage parses one page document and inserts it into the snapshot
func (cf *CollyFetcher) addPage(snapshot models.Snapshot, number int, data *pageData) error {
	text, err := cf.parser.ExtractText(data.Content)
	if err != nil {
		return err
	}
	title, content, err := cf.parser.ParsePage(text)
	if err != nil {
		return err
	}
	page, err := models.NewPage(number, title, content)
	if err != nil {
		return err
	}
	snapshot.Insert(page)
	return nil
}
