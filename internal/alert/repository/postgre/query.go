package postgres

import (
	"strings"

	"alert-srv/internal/alert/repository"

	"github.com/aarondl/sqlboiler/v4/drivers"
	"github.com/aarondl/sqlboiler/v4/queries"
	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/lib/pq"
)

var dialect = drivers.Dialect{
	LQ:                   '"',
	RQ:                   '"',
	UseIndexPlaceholders: true,
	UseDefaultKeyword:    true,
}

var (
	selectColumns = strings.Join(alertColumns, ", ")

	insertQuery = "INSERT INTO " + tableAlerts + " (" + selectColumns + ") " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9, $10, $11::jsonb, $12, $13, $14, $15) " +
		"RETURNING " + selectColumns

	lockQuery = "SELECT " + selectColumns + " FROM " + tableAlerts + " WHERE id = $1 FOR UPDATE"

	updateQuery = "UPDATE " + tableAlerts + " SET status = $2, recommended_actions = $3::jsonb, " +
		"acknowledged_by = $4::jsonb, updated_at = $5 WHERE id = $1"
)

func newQuery(mods ...qm.QueryMod) *queries.Query {
	q := &queries.Query{}
	queries.SetDialect(q, &dialect)
	qm.Apply(q, mods...)
	return q
}

func stringsOf[T ~string](in []T) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = string(v)
	}
	return out
}

func buildWhere(f repository.Filter) []qm.QueryMod {
	var mods []qm.QueryMod
	if f.Statuses != nil {
		mods = append(mods, qm.Where("status = ANY(?)", pq.Array(stringsOf(f.Statuses))))
	}
	if f.Severities != nil {
		mods = append(mods, qm.Where("severity = ANY(?)", pq.Array(stringsOf(f.Severities))))
	}
	if f.Areas != nil {
		mods = append(mods, qm.Where("area = ANY(?)", pq.Array(stringsOf(f.Areas))))
	}
	if f.ExpiresBy != nil {
		mods = append(mods, qm.Where("expires_at <= ?", *f.ExpiresBy))
	}
	if len(f.ExcludeIDs) > 0 {
		mods = append(mods, qm.Where("NOT (id = ANY(?::uuid[]))", pq.Array(f.ExcludeIDs)))
	}
	return mods
}

func (r *implRepository) buildListQuery(opts repository.ListOptions) *queries.Query {
	mods := []qm.QueryMod{
		qm.Select(alertColumns...),
		qm.From(tableAlerts),
	}
	mods = append(mods, buildWhere(opts.Filter)...)
	mods = append(mods, qm.OrderBy("created_at DESC, id DESC"))
	if opts.Limit > 0 {
		mods = append(mods, qm.Limit(opts.Limit))
	}
	return newQuery(mods...)
}

func (r *implRepository) buildGetQuery(opts repository.GetOptions) (page *queries.Query, count *queries.Query) {
	where := buildWhere(opts.Filter)

	pageReq := opts.PaginateQuery
	pageReq.Adjust()

	pageMods := append([]qm.QueryMod{qm.Select(alertColumns...), qm.From(tableAlerts)}, where...)
	pageMods = append(pageMods,
		qm.OrderBy("created_at DESC, id DESC"),
		qm.Limit(int(pageReq.Limit)),
		qm.Offset(int(pageReq.Offset())),
	)

	countMods := append([]qm.QueryMod{qm.Select("COUNT(*)"), qm.From(tableAlerts)}, where...)
	return newQuery(pageMods...), newQuery(countMods...)
}

func (r *implRepository) buildDetailQuery(id string) *queries.Query {
	return newQuery(
		qm.Select(alertColumns...),
		qm.From(tableAlerts),
		qm.Where("id = ?", id),
	)
}
