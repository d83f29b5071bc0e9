package domain

import "time"

// NotAvailable is reported for preferences that cannot be computed.
const NotAvailable = "N/A"

// Stats is the aggregate view over a tenant's whole collection.
type Stats struct {
	Overview       StatsOverview       `json:"overview"`
	ReadingMetrics StatsReadingMetrics `json:"readingMetrics"`
	Preferences    StatsPreferences    `json:"preferences"`
	Timeline       StatsTimeline       `json:"timeline"`
}

// StatsOverview holds the status counts.
type StatsOverview struct {
	TotalBooks     int `json:"totalBooks"`
	BooksRead      int `json:"booksRead"`
	BooksReading   int `json:"booksReading"`
	BooksToRead    int `json:"booksToRead"`
	BooksAbandoned int `json:"booksAbandoned"`
}

// StatsReadingMetrics holds page, rating and recency figures.
type StatsReadingMetrics struct {
	TotalPagesRead int     `json:"totalPagesRead"`
	AveragePages   int     `json:"averagePages"`
	AverageRating  float64 `json:"averageRating"`
	BooksThisYear  int     `json:"booksThisYear"`
	BooksThisMonth int     `json:"booksThisMonth"`
}

// TopRatedBook is the reduced form of a five-star book.
type TopRatedBook struct {
	Title  string `json:"title"`
	Rating int    `json:"rating"`
}

// StatsPreferences holds favorites.
type StatsPreferences struct {
	FavoriteGenre  string         `json:"favoriteGenre"`
	FavoriteAuthor string         `json:"favoriteAuthor"`
	TopRatedBooks  []TopRatedBook `json:"topRatedBooks"`
}

// StatsTimeline holds positional first/last additions.
type StatsTimeline struct {
	FirstBookAdded    *time.Time `json:"firstBookAdded"`
	LastBookAdded     *time.Time `json:"lastBookAdded"`
	MostProductiveDay string     `json:"mostProductiveDay"`
}
