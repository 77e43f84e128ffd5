// Package campaign holds the records of the "Why Small Businesses Matter"
// interview campaign: the business details of a respondent, the businesses
// they nominate, their answers to the interview questions, and the
// invitation letter sent to each nominee.
//
// Parse functions decode model output strictly: markdown code fences are
// tolerated, anything else that is not the expected JSON shape is an error.
package campaign
