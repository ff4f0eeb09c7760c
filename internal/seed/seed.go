// Package seed loads demo data into a store for development.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"quill/internal/auth"
	"quill/internal/models"
	"quill/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yml
var defaultFixtures []byte

// Fixtures is the demo data set. Posts are assigned to users round-robin;
// comments reference posts and authors by index.
type Fixtures struct {
	Password string        `yaml:"password"`
	Users    []UserFixture `yaml:"users"`
	Posts    []PostFixture `yaml:"posts"`
	Comments []struct {
		Content string `yaml:"content"`
		Post    int    `yaml:"post"`
		Author  int    `yaml:"author"`
	} `yaml:"comments"`
}

type UserFixture struct {
	Name  string      `yaml:"name"`
	Email string      `yaml:"email"`
	Role  models.Role `yaml:"role"`
}

type PostFixture struct {
	Title   string   `yaml:"title"`
	Content string   `yaml:"content"`
	Tags    []string `yaml:"tags"`
}

// DefaultFixtures returns the embedded demo data set.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

// ParseFixtures decodes a YAML data set and checks its references.
func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	if len(f.Users) == 0 {
		return nil, fmt.Errorf("fixtures define no users")
	}
	if f.Password == "" {
		return nil, fmt.Errorf("fixtures define no password")
	}
	for i, u := range f.Users {
		if u.Role == "" {
			f.Users[i].Role = models.RoleUser
		} else if !u.Role.Valid() {
			return nil, fmt.Errorf("user %s: unknown role %q", u.Email, u.Role)
		}
	}
	for i, c := range f.Comments {
		if c.Post < 0 || c.Post >= len(f.Posts) {
			return nil, fmt.Errorf("comment %d: post index %d out of range", i, c.Post)
		}
		if c.Author < 0 || c.Author >= len(f.Users) {
			return nil, fmt.Errorf("comment %d: author index %d out of range", i, c.Author)
		}
	}
	return &f, nil
}

// Options configures a seeding run.
type Options struct {
	// Reset empties the store first.
	Reset bool
	// Fake adds this many generated posts on top of the fixtures.
	Fake int
	// FakeSeed makes generated content reproducible. Zero picks a random seed.
	FakeSeed int64
}

// Summary counts what a run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
}

// Seeder writes fixtures through the store's repositories, so it works on
// every backend.
type Seeder struct {
	store  *repository.Store
	logger *slog.Logger
	hashes map[string]string
}

// NewSeeder returns a Seeder for store.
func NewSeeder(store *repository.Store, logger *slog.Logger) *Seeder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Seeder{store: store, logger: logger, hashes: map[string]string{}}
}

// Run loads f into the store.
func (s *Seeder) Run(ctx context.Context, f *Fixtures, opts Options) (*Summary, error) {
	if opts.Reset {
		s.logger.Info("clearing existing data")
		if err := s.store.Reset(ctx); err != nil {
			return nil, fmt.Errorf("reset store: %w", err)
		}
	}

	sum := &Summary{}
	users, err := s.users(ctx, f, sum)
	if err != nil {
		return nil, err
	}

	// Fixture posts get distinct, increasing timestamps so the listing
	// order matches the file order reversed.
	base := time.Now().UTC().Add(-time.Duration(len(f.Posts)) * time.Minute).Truncate(time.Millisecond)
	posts := make([]*models.Post, 0, len(f.Posts))
	for i, pf := range f.Posts {
		post := &models.Post{
			Title:       strings.TrimSpace(pf.Title),
			Content:     strings.TrimSpace(pf.Content),
			AuthorID:    users[i%len(users)].ID,
			Tags:        pf.Tags,
			IsPublished: true,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.store.Posts.Create(ctx, post); err != nil {
			return nil, fmt.Errorf("create post %q: %w", pf.Title, err)
		}
		posts = append(posts, post)
		sum.Posts++
		s.logger.Debug("created post", slog.String("title", post.Title))
	}

	for _, cf := range f.Comments {
		comment := &models.Comment{
			Content:  cf.Content,
			PostID:   posts[cf.Post].ID,
			AuthorID: users[cf.Author].ID,
		}
		if err := s.store.Comments.Create(ctx, comment); err != nil {
			return nil, fmt.Errorf("create comment on %q: %w", posts[cf.Post].Title, err)
		}
		sum.Comments++
	}

	if opts.Fake > 0 {
		if err := s.fake(ctx, users, opts, sum); err != nil {
			return nil, err
		}
	}

	s.logger.Info("seeding complete",
		slog.Int("users", sum.Users),
		slog.Int("posts", sum.Posts),
		slog.Int("comments", sum.Comments),
	)
	return sum, nil
}

// users creates the fixture accounts. Accounts that already exist are
// reused as they are.
func (s *Seeder) users(ctx context.Context, f *Fixtures, sum *Summary) ([]*models.User, error) {
	users := make([]*models.User, 0, len(f.Users))
	for _, uf := range f.Users {
		email := strings.ToLower(strings.TrimSpace(uf.Email))
		existing, err := s.store.Users.GetByEmail(ctx, email)
		if err == nil {
			users = append(users, existing)
			continue
		}
		if !models.HasCode(err, models.CodeNotFound) {
			return nil, fmt.Errorf("look up %s: %w", email, err)
		}

		hash, err := s.hash(f.Password)
		if err != nil {
			return nil, err
		}
		user := &models.User{Name: uf.Name, Email: email, Password: hash, Role: uf.Role}
		if err := s.store.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create user %s: %w", email, err)
		}
		users = append(users, user)
		sum.Users++
		s.logger.Info("created user", slog.String("email", email), slog.String("role", string(user.Role)))
	}
	return users, nil
}

func (s *Seeder) hash(password string) (string, error) {
	if h, ok := s.hashes[password]; ok {
		return h, nil
	}
	h, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	s.hashes[password] = h
	return h, nil
}

func (s *Seeder) fake(ctx context.Context, users []*models.User, opts Options, sum *Summary) error {
	seed := opts.FakeSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	faker := gofakeit.New(seed)

	for i := 0; i < opts.Fake; i++ {
		post := &models.Post{
			Title:       clip(strings.TrimSuffix(faker.Sentence(faker.Number(3, 8)), "."), 100),
			Content:     clip(faker.Paragraph(faker.Number(1, 4), 4, 12, "\n\n"), 5000),
			AuthorID:    users[i%len(users)].ID,
			Tags:        []string{faker.Word(), faker.Word()},
			IsPublished: faker.Number(1, 10) > 2,
			CreatedAt:   faker.DateRange(time.Now().AddDate(0, -3, 0), time.Now()).UTC().Truncate(time.Millisecond),
		}
		if err := s.store.Posts.Create(ctx, post); err != nil {
			return fmt.Errorf("create generated post: %w", err)
		}
		sum.Posts++

		for j := faker.Number(0, 3); j > 0; j-- {
			comment := &models.Comment{
				Content:  clip(faker.Sentence(faker.Number(5, 20)), 500),
				PostID:   post.ID,
				AuthorID: users[faker.Number(0, len(users)-1)].ID,
			}
			if err := s.store.Comments.Create(ctx, comment); err != nil {
				return fmt.Errorf("create generated comment: %w", err)
			}
			sum.Comments++
		}
	}
	return nil
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n])
}
