package page

import "bammbuu-live/biz/application/dto/basic"

// Parse 解析分页参数, 返回页码和每页大小
func Parse(p *basic.PaginationOptions) (page int64, pageSize int64) {
	page = int64(1)
	pageSize = int64(10)
	if p != nil {
		if p.Page != nil {
			page = *p.Page
		}
		if p.Limit != nil {
			pageSize = *p.Limit
		}
	}
	return page, pageSize
}
