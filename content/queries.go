package content

// GROQ projections. List projections never select body; only PostBySlugQuery
// does, together with the expanded related posts.
const (
	imageFields = `asset->{_id, url}, alt, caption`

	categoryFields = `_id, title, "slug": slug.current, color, icon, description`

	postFields = `
  _id,
  title,
  "slug": slug.current,
  excerpt,
  publishedAt,
  readingTime,
  featured,
  status,
  tags,
  mainImage{` + imageFields + `},
  categories[]->{` + categoryFields + `}`

	listFields = postFields + `,
  author->{_id, name, role, image{` + imageFields + `}}`

	relatedFields = `
  _id,
  title,
  "slug": slug.current,
  excerpt,
  publishedAt,
  readingTime,
  mainImage{` + imageFields + `},
  categories[]->{` + categoryFields + `}`

	detailFields = postFields + `,
  seoTitle,
  metaDescription,
  focusKeyword,
  keywords,
  body[]{
    ...,
    _type == "image" => {..., asset->{_id, url}}
  },
  author->{_id, name, role, bio, expertise, image{` + imageFields + `}, socialLinks, active, featured},
  relatedPosts[]->{` + relatedFields + `
  }`

	published = `_type == "post" && status == "published" && defined(slug.current)`
)

// The query catalog. Variable parts are bound parameters.
const (
	AllPostsQuery = `*[` + published + `] | order(publishedAt desc) {` + listFields + `
}`

	// FeaturedPostsQuery takes $limit.
	FeaturedPostsQuery = `*[` + published + ` && featured == true] | order(publishedAt desc) [0...$limit] {` + listFields + `
}`

	// PostBySlugQuery takes $slug.
	PostBySlugQuery = `*[` + published + ` && slug.current == $slug][0] {` + detailFields + `
}`

	PostSlugsQuery = `*[` + published + `] | order(publishedAt desc) {"slug": slug.current}`

	// PostsByCategoryQuery takes $categorySlug.
	PostsByCategoryQuery = `*[` + published + ` && references(*[_type == "category" && slug.current == $categorySlug]._id)] | order(publishedAt desc) {` + listFields + `
}`
)

// Queries used by the connectivity check.
const (
	LatestPostsQuery = `*[_type == "post"] | order(_createdAt desc) [0...3] {_id, title, "slug": slug.current, status}`
	CategoriesQuery  = `*[_type == "category"] | order(title asc) {` + categoryFields + `}`
	AuthorsQuery     = `*[_type == "author"] | order(name asc) {_id, name, role, active, featured}`
)
